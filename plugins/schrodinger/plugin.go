// Package schrodinger contributes the Schrodinger suite protocols and their
// virtual-screening menu to the menucore host.
package schrodinger

import (
	"context"
	_ "embed"
	"fmt"

	"menucore/pkg/menu"
	"menucore/pkg/pluginapi"
)

//go:embed virtual_screening.json
var menuDocument []byte

// Plugin implements the Schrodinger protocol suite module.
type Plugin struct{}

// New constructs a Schrodinger plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "schrodinger" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "1.0.0" }

// descriptors lists every protocol the suite ships. Keys are the identifiers
// menu leaves reference in their value field.
var descriptors = []pluginapi.ProtocolDescriptor{
	{Key: "ProtSchrodingerPrepWizard", Title: "Target preparation wizard", Icon: "schrodinger/prepwizard.png"},
	{Key: "ProtSchrodingerPrime", Title: "Prime structure refinement", Icon: "schrodinger/prime.png"},
	{Key: "ProtSchrodingerLigPrep", Title: "Ligand preparation", Icon: "schrodinger/ligprep.png"},
	{Key: "ProtSchrodingerConvert", Title: "Convert structure formats"},
	{Key: "ProtSchrodingerSplitStructure", Title: "Split structure"},
	{Key: "ProtSchrodingerGlideDocking", Title: "Glide docking", Icon: "schrodinger/glide.png"},
	{Key: "ProtSchrodingerSiteMap", Title: "SiteMap binding site prediction", Icon: "schrodinger/sitemap.png"},
	{Key: "ProtSchrodingerGrid", Title: "Grid definition"},
	{Key: "ProtSchrodingerDesmondSysPrep", Title: "Desmond system preparation", Icon: "schrodinger/desmond.png"},
	{Key: "ProtSchrodingerDesmondMD", Title: "Desmond molecular dynamics", Icon: "schrodinger/desmond.png"},
	{Key: "ProtSchrodingerQikprop", Title: "QikProp ADME prediction"},
	{Key: "ProtSchrodingerMMGBSA", Title: "MM-GBSA binding energy rescoring"},
	{Key: "ProtSchrodingerIFD", Title: "Induced fit docking", Icon: "schrodinger/ifd.png"},
}

// Register wires the suite's protocol descriptors, the embedded menu
// document, and the Desmond ordering advisory rule.
func (Plugin) Register(registry pluginapi.Registry) error {
	for _, desc := range descriptors {
		if err := registry.RegisterProtocol(desc); err != nil {
			return fmt.Errorf("register protocol %s: %w", desc.Key, err)
		}
	}

	doc, err := menu.ParseDocument(menuDocument)
	if err != nil {
		return fmt.Errorf("parse embedded menu document: %w", err)
	}
	for _, m := range doc.Menus {
		if err := registry.RegisterMenu(m.Name, m.Nodes); err != nil {
			return fmt.Errorf("register menu %q: %w", m.Name, err)
		}
	}

	registry.RegisterRule(desmondOrderingRule{})
	return nil
}

type desmondOrderingRule struct{}

func (desmondOrderingRule) Name() string { return "desmond_ordering_warning" }

// Evaluate warns when a menu offers the Desmond simulation without the system
// preparation step that produces its input.
func (desmondOrderingRule) Evaluate(ctx context.Context, view pluginapi.RuleView, changes []pluginapi.Change) (pluginapi.Result, error) {
	var result pluginapi.Result
	for _, doc := range view.ListMenuDocuments() {
		hasMD := false
		hasSysPrep := false
		for i := range doc.Nodes {
			doc.Nodes[i].Walk(func(n *menu.Node) bool {
				switch n.Value {
				case "ProtSchrodingerDesmondMD":
					hasMD = true
				case "ProtSchrodingerDesmondSysPrep":
					hasSysPrep = true
				}
				return true
			})
		}
		if hasMD && !hasSysPrep {
			result.Violations = append(result.Violations, pluginapi.Violation{
				Rule:     "desmond_ordering_warning",
				Severity: pluginapi.SeverityWarn,
				Message:  fmt.Sprintf("menu %s offers Desmond dynamics without Desmond system preparation", doc.Name),
				Entity:   pluginapi.EntityMenuDocument,
				EntityID: doc.ID,
			})
		}
	}
	return result, nil
}
