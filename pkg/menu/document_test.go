package menu

import (
	"strings"
	"testing"
)

const sampleDocument = `{
  "Virtual Screening": [
    {"tag": "section", "text": "Preparation", "openItem": "False", "children": [
      {"tag": "protocol_group", "text": "Target Preparation", "openItem": "False", "children": [
        {"tag": "protocol", "text": "target preparation wizard", "value": "ProtSchrodingerPrepWizard"},
        {"tag": "protocol", "text": "split structure", "value": "ProtSchrodingerSplitStructure"}
      ]},
      {"tag": "protocol_group", "text": "Ligand Preparation", "children": [
        {"tag": "protocol", "text": "ligand preparation", "value": "ProtSchrodingerLigPrep"}
      ]}
    ]},
    {"tag": "section", "text": "Ligand Based Filters", "children": []},
    {"tag": "section", "text": "Docking", "openItem": "True", "children": [
      {"tag": "protocol", "text": "glide docking", "value": "ProtSchrodingerGlideDocking"}
    ]}
  ]
}`

func TestParseDocumentPreservesOrder(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	if got := doc.Names(); len(got) != 1 || got[0] != "Virtual Screening" {
		t.Fatalf("unexpected menu names: %v", got)
	}
	m, ok := doc.Menu("Virtual Screening")
	if !ok {
		t.Fatalf("missing Virtual Screening menu")
	}
	wantSections := []string{"Preparation", "Ligand Based Filters", "Docking"}
	if len(m.Nodes) != len(wantSections) {
		t.Fatalf("expected %d sections, got %d", len(wantSections), len(m.Nodes))
	}
	for i, want := range wantSections {
		if m.Nodes[i].Text != want {
			t.Fatalf("section %d: want %q, got %q", i, want, m.Nodes[i].Text)
		}
	}
}

func TestParseDocumentScenarios(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	m, _ := doc.Menu("Virtual Screening")

	prep, ok := m.FindSection("Preparation")
	if !ok {
		t.Fatalf("missing Preparation section")
	}
	group, ok := prep.FindGroup("Target Preparation")
	if !ok {
		t.Fatalf("missing Target Preparation group")
	}
	foundWizard := false
	for _, leaf := range group.Leaves() {
		if leaf.Value == "ProtSchrodingerPrepWizard" {
			foundWizard = true
		}
	}
	if !foundWizard {
		t.Fatalf("Target Preparation should contain ProtSchrodingerPrepWizard, got %+v", group.Leaves())
	}

	docking, ok := m.FindSection("Docking")
	if !ok {
		t.Fatalf("missing Docking section")
	}
	var direct []Node
	for _, child := range docking.Children {
		if child.IsLeaf() {
			direct = append(direct, child)
		}
	}
	if len(direct) != 1 || direct[0].Value != "ProtSchrodingerGlideDocking" {
		t.Fatalf("Docking should contain exactly one direct protocol leaf, got %+v", direct)
	}

	empty, ok := m.FindSection("Ligand Based Filters")
	if !ok {
		t.Fatalf("missing Ligand Based Filters section")
	}
	if empty.Children == nil || len(empty.Children) != 0 {
		t.Fatalf("Ligand Based Filters should have an explicit empty children list, got %+v", empty.Children)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	data, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	again, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("reparse document: %v", err)
	}
	if !doc.Equal(again) {
		t.Fatalf("round trip changed the document:\nfirst:  %+v\nsecond: %+v", doc, again)
	}
	// Empty children lists must survive serialization for grouping nodes.
	if !strings.Contains(string(data), `"text":"Ligand Based Filters","children":[]`) {
		t.Fatalf("empty section lost its children list: %s", data)
	}
}

func TestDocumentOrderStableAcrossMenus(t *testing.T) {
	const multi = `{"B Menu": [{"tag":"section","text":"One","children":[]}], "A Menu": [{"tag":"section","text":"Two","children":[]}]}`
	doc, err := ParseDocument([]byte(multi))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	if got := doc.Names(); got[0] != "B Menu" || got[1] != "A Menu" {
		t.Fatalf("menu order not preserved: %v", got)
	}
	data, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	if idxB, idxA := strings.Index(string(data), "B Menu"), strings.Index(string(data), "A Menu"); idxB > idxA {
		t.Fatalf("serialized order not preserved: %s", data)
	}
}

func TestParseDocumentErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"not an object", `["Virtual Screening"]`},
		{"duplicate menu", `{"M": [], "M": []}`},
		{"node list not array", `{"M": {"tag":"section"}}`},
		{"trailing garbage", `{"M": []`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseDocument([]byte(tc.input)); err == nil {
				t.Fatalf("expected parse error for %s", tc.input)
			}
		})
	}
}

func TestProtocolKeys(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	want := []string{
		"ProtSchrodingerPrepWizard",
		"ProtSchrodingerSplitStructure",
		"ProtSchrodingerLigPrep",
		"ProtSchrodingerGlideDocking",
	}
	got := doc.ProtocolKeys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	cp := doc.Clone()
	cp.Menus[0].Nodes[0].Children[0].Text = "mutated"
	if doc.Menus[0].Nodes[0].Children[0].Text == "mutated" {
		t.Fatalf("clone shares child storage with original")
	}
	if !doc.Equal(doc.Clone()) {
		t.Fatalf("clone should compare equal to original")
	}
}
