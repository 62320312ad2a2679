package core

import "menucore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Base               = domain.Base
	ProtocolDescriptor = domain.ProtocolDescriptor
	MenuDocument       = domain.MenuDocument
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	RuleView           = domain.RuleView
	Transaction        = domain.Transaction
	PersistentStore    = domain.PersistentStore
)

const (
	EntityMenuDocument = domain.EntityMenuDocument
	EntityProtocol     = domain.EntityProtocol
	EntityPlugin       = domain.EntityPlugin
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}
