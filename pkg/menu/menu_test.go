package menu

import (
	"encoding/json"
	"testing"
)

func TestWalkOrderAndEarlyStop(t *testing.T) {
	root := Section("Preparation",
		Group("Target Preparation",
			Protocol("wizard", "ProtSchrodingerPrepWizard"),
			Protocol("split", "ProtSchrodingerSplitStructure"),
		),
		Protocol("convert", "ProtSchrodingerConvert"),
	)
	var visited []string
	root.Walk(func(n *Node) bool {
		visited = append(visited, n.Text)
		return true
	})
	want := []string{"Preparation", "Target Preparation", "wizard", "split", "convert"}
	if len(visited) != len(want) {
		t.Fatalf("expected %d nodes, visited %v", len(want), visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visit %d: want %s, got %s", i, want[i], visited[i])
		}
	}

	var count int
	root.Walk(func(n *Node) bool {
		count++
		return n.Tag != TagProtocol // stop at first leaf
	})
	if count != 3 {
		t.Fatalf("expected walk to stop after first leaf, visited %d nodes", count)
	}
}

func TestOpenStateHelpers(t *testing.T) {
	var n Node
	if n.Open() {
		t.Fatalf("absent openItem should render collapsed")
	}
	n.SetOpen(true)
	if n.OpenItem != OpenTrue || !n.Open() {
		t.Fatalf("SetOpen(true) should store %q, got %q", OpenTrue, n.OpenItem)
	}
	n.SetOpen(false)
	if n.OpenItem != OpenFalse || n.Open() {
		t.Fatalf("SetOpen(false) should store %q, got %q", OpenFalse, n.OpenItem)
	}
}

func TestNodeMarshalShape(t *testing.T) {
	leaf := Protocol("glide docking", "ProtSchrodingerGlideDocking")
	data, err := json.Marshal(leaf)
	if err != nil {
		t.Fatalf("marshal leaf: %v", err)
	}
	if string(data) != `{"tag":"protocol","text":"glide docking","value":"ProtSchrodingerGlideDocking"}` {
		t.Fatalf("unexpected leaf form: %s", data)
	}

	section := Section("Ligand Based Filters")
	data, err = json.Marshal(section)
	if err != nil {
		t.Fatalf("marshal section: %v", err)
	}
	if string(data) != `{"tag":"section","text":"Ligand Based Filters","children":[]}` {
		t.Fatalf("unexpected section form: %s", data)
	}
}

func TestLeavesCollectsInRenderOrder(t *testing.T) {
	root := Section("Docking",
		Protocol("glide", "ProtSchrodingerGlideDocking"),
		Group("Flexible Docking",
			Protocol("induced fit", "ProtSchrodingerIFD"),
		),
	)
	leaves := root.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves, got %+v", leaves)
	}
	if leaves[0].Value != "ProtSchrodingerGlideDocking" || leaves[1].Value != "ProtSchrodingerIFD" {
		t.Fatalf("unexpected leaf order: %+v", leaves)
	}
}

func TestFindGroupMissing(t *testing.T) {
	root := Section("Preparation")
	if _, ok := root.FindGroup("Target Preparation"); ok {
		t.Fatalf("expected FindGroup miss on empty section")
	}
}
