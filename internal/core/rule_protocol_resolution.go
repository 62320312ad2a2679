package core

import (
	"context"
	"fmt"

	"menucore/pkg/domain"
)

// NewProtocolResolutionRule returns the in-transaction rule requiring every
// menu leaf value to resolve to a registered protocol descriptor.
func NewProtocolResolutionRule() domain.Rule {
	return protocolResolutionRule{}
}

type protocolResolutionRule struct{}

func (protocolResolutionRule) Name() string { return "protocol_resolution" }

func (protocolResolutionRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, doc := range view.ListMenuDocuments() {
		for _, node := range doc.Nodes {
			for _, leaf := range node.Leaves() {
				if _, ok := view.FindProtocol(leaf.Value); ok {
					continue
				}
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "protocol_resolution",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("menu %s entry %q references unknown protocol %s", doc.Name, leaf.Text, leaf.Value),
					Entity:   domain.EntityMenuDocument,
					EntityID: doc.ID,
				})
			}
		}
	}
	return res, nil
}
