// Package pluginapi is the stable facade protocol plugins build against.
// Plugins import this package (and pkg/menu) only; the domain aliases below
// keep them decoupled from internal model churn.
package pluginapi

import (
	"menucore/pkg/domain"
	"menucore/pkg/menu"
)

type (
	// ProtocolDescriptor describes one executable protocol a plugin provides.
	ProtocolDescriptor = domain.ProtocolDescriptor
	// Rule is an in-transaction policy a plugin may contribute.
	Rule = domain.Rule
	// RuleView is the read-only state rules evaluate against.
	RuleView = domain.RuleView
	// Change records a mutation visible to rules.
	Change = domain.Change
	// Result aggregates rule findings.
	Result = domain.Result
	// Violation is a single rule finding.
	Violation = domain.Violation
	// Severity grades a violation.
	Severity = domain.Severity
	// EntityType identifies the record type a violation refers to.
	EntityType = domain.EntityType
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog

	EntityMenuDocument = domain.EntityMenuDocument
	EntityProtocol     = domain.EntityProtocol
)

// Registry collects a plugin's contributions during installation.
type Registry interface {
	RegisterProtocol(desc ProtocolDescriptor) error
	RegisterMenu(name string, nodes []menu.Node) error
	RegisterRule(rule Rule)
}

// Plugin is implemented by protocol packages that contribute descriptors and
// menu documents to the host.
type Plugin interface {
	Name() string
	Version() string
	Register(Registry) error
}

const Version = "v1"
