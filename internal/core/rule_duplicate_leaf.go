package core

import (
	"context"
	"fmt"

	"menucore/pkg/domain"
)

// NewDuplicateLeafRule returns the in-transaction rule warning when one menu
// document lists the same protocol more than once. Duplicates render fine but
// usually indicate a plugin merge mistake, so they warn instead of blocking.
func NewDuplicateLeafRule() domain.Rule {
	return duplicateLeafRule{}
}

type duplicateLeafRule struct{}

func (duplicateLeafRule) Name() string { return "duplicate_leaf" }

func (duplicateLeafRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, doc := range view.ListMenuDocuments() {
		seen := make(map[string]int)
		for _, node := range doc.Nodes {
			for _, leaf := range node.Leaves() {
				seen[leaf.Value]++
			}
		}
		for key, count := range seen {
			if count < 2 {
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "duplicate_leaf",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("menu %s lists protocol %s %d times", doc.Name, key, count),
				Entity:   domain.EntityMenuDocument,
				EntityID: doc.ID,
			})
		}
	}
	return res, nil
}
