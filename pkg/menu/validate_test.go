package menu

import (
	"strings"
	"testing"
)

func TestValidateAcceptsSampleDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("sample document should validate, got %v", err)
	}
}

func TestValidateNodeErrors(t *testing.T) {
	cases := []struct {
		name    string
		node    Node
		wantErr string
	}{
		{
			name:    "protocol without value",
			node:    Node{Tag: TagProtocol, Text: "docking"},
			wantErr: "protocol node missing value",
		},
		{
			name:    "protocol with children",
			node:    Node{Tag: TagProtocol, Text: "docking", Value: "ProtX", Children: []Node{Protocol("a", "A")}},
			wantErr: "must not have children",
		},
		{
			name:    "section without children list",
			node:    Node{Tag: TagSection, Text: "Docking"},
			wantErr: "missing children list",
		},
		{
			name:    "group carrying a value",
			node:    Node{Tag: TagProtocolGroup, Text: "g", Value: "ProtX", Children: []Node{}},
			wantErr: "must not carry a value",
		},
		{
			name:    "unknown tag",
			node:    Node{Tag: "menu", Text: "x"},
			wantErr: "unknown tag",
		},
		{
			name:    "missing text",
			node:    Node{Tag: TagSection, Children: []Node{}},
			wantErr: "missing text",
		},
		{
			name:    "invalid openItem literal",
			node:    Node{Tag: TagSection, Text: "s", OpenItem: "yes", Children: []Node{}},
			wantErr: "invalid openItem",
		},
		{
			name: "nested error carries path",
			node: Section("Preparation",
				Group("Target Preparation",
					Node{Tag: TagProtocol, Text: "broken"},
				),
			),
			wantErr: "children[0]: children[0]: protocol node missing value",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.node.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateEmptyGroupIsLegal(t *testing.T) {
	n := Section("Ligand Based Filters")
	if err := n.Validate(); err != nil {
		t.Fatalf("empty section should validate, got %v", err)
	}
}

func TestValidateDocumentShape(t *testing.T) {
	if err := (Document{}).Validate(); err == nil {
		t.Fatalf("empty document should not validate")
	}
	doc := Document{Menus: []Menu{{Name: "Virtual Screening", Nodes: []Node{Protocol("x", "ProtX")}}}}
	err := doc.Validate()
	if err == nil || !strings.Contains(err.Error(), "top-level node must be a section") {
		t.Fatalf("expected top-level section error, got %v", err)
	}
}
