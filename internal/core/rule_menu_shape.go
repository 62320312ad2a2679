package core

import (
	"context"
	"fmt"

	"menucore/pkg/domain"
	"menucore/pkg/menu"
)

// NewMenuShapeRule returns the in-transaction rule enforcing structural menu
// invariants: named documents, section roots, and well-formed nodes.
func NewMenuShapeRule() domain.Rule {
	return menuShapeRule{}
}

type menuShapeRule struct{}

func (menuShapeRule) Name() string { return "menu_shape" }

func (menuShapeRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, doc := range view.ListMenuDocuments() {
		tree := menu.Document{Menus: []menu.Menu{{Name: doc.Name, Nodes: doc.Nodes}}}
		if err := tree.Validate(); err != nil {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "menu_shape",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("menu %s is malformed: %v", doc.Name, err),
				Entity:   domain.EntityMenuDocument,
				EntityID: doc.ID,
			})
		}
	}
	return res, nil
}
