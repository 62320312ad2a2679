package core

import (
	"testing"

	"menucore/pkg/domain"
	"menucore/pkg/menu"
)

func TestRegistryRejectsInvalidProtocols(t *testing.T) {
	registry := NewPluginRegistry()
	if err := registry.RegisterProtocol(domain.ProtocolDescriptor{Title: "No key"}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if err := registry.RegisterProtocol(domain.ProtocolDescriptor{Key: "ProtSchrodingerPrime"}); err == nil {
		t.Fatalf("expected missing title error")
	}
	if err := registry.RegisterProtocol(domain.ProtocolDescriptor{Key: "ProtSchrodingerPrime", Title: "Prime refinement"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.RegisterProtocol(domain.ProtocolDescriptor{Key: "ProtSchrodingerPrime", Title: "Again"}); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestRegistryValidatesMenuShape(t *testing.T) {
	registry := NewPluginRegistry()
	bad := []menu.Node{menu.Protocol("Loose leaf", "ProtSchrodingerPrime")}
	if err := registry.RegisterMenu("Virtual Screening", bad); err == nil {
		t.Fatalf("expected top-level leaf rejection")
	}
	good := []menu.Node{menu.Section("Preparation")}
	if err := registry.RegisterMenu("Virtual Screening", good); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.RegisterMenu("Virtual Screening", good); err == nil {
		t.Fatalf("expected duplicate menu error")
	}
	if err := registry.RegisterMenu("", good); err == nil {
		t.Fatalf("expected empty name rejection")
	}
}

func TestRegistryClonesMenuNodes(t *testing.T) {
	registry := NewPluginRegistry()
	nodes := []menu.Node{menu.Section("Preparation", menu.Protocol("LigPrep", "ProtSchrodingerLigPrep"))}
	if err := registry.RegisterMenu("Virtual Screening", nodes); err != nil {
		t.Fatalf("register: %v", err)
	}
	nodes[0].Children[0].Text = "mutated"
	stored := registry.Menus()[0]
	if stored.Nodes[0].Children[0].Text != "LigPrep" {
		t.Fatalf("registry leaked caller mutation: %+v", stored.Nodes)
	}
}

func TestRegistryIgnoresNilRule(t *testing.T) {
	registry := NewPluginRegistry()
	registry.RegisterRule(nil)
	if len(registry.Rules()) != 0 {
		t.Fatalf("expected nil rule to be ignored")
	}
	registry.RegisterRule(namedRule{name: "x", severity: domain.SeverityLog})
	if len(registry.Rules()) != 1 {
		t.Fatalf("expected registered rule")
	}
}
