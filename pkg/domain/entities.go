// Package domain defines the persistent records, value types, and rule
// evaluation primitives used by the menucore host: protocol descriptors
// registered by plugins and the menu documents that reference them.
package domain

import (
	"time"

	"menucore/pkg/menu"
)

// EntityType identifies the type of record stored by the host.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityMenuDocument identifies an installed menu document.
	EntityMenuDocument EntityType = "menu_document"
	// EntityProtocol identifies a protocol descriptor.
	EntityProtocol EntityType = "protocol"
	// EntityPlugin identifies an installed plugin record.
	EntityPlugin EntityType = "plugin"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all host records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProtocolDescriptor describes one executable protocol a plugin registered
// with the host. Key is the identifier menu protocol leaves reference in
// their value field.
type ProtocolDescriptor struct {
	Base
	Key           string `json:"key"`
	Title         string `json:"title"`
	Plugin        string `json:"plugin"`
	PluginVersion string `json:"plugin_version"`
	Icon          string `json:"icon,omitempty"`
}

// MenuDocument is an installed menu tree contributed by a plugin. The node
// list is treated as immutable once stored; replacement creates a new
// revision.
type MenuDocument struct {
	Base
	Name     string      `json:"name"`
	Plugin   string      `json:"plugin"`
	Revision int         `json:"revision"`
	Nodes    []menu.Node `json:"nodes"`
}

// CloneNodes returns a deep copy of the document's node list so callers
// cannot mutate stored state through a returned record.
func (d MenuDocument) CloneNodes() []menu.Node {
	out := make([]menu.Node, len(d.Nodes))
	for i := range d.Nodes {
		out[i] = d.Nodes[i].Clone()
	}
	return out
}

// Action describes the kind of mutation recorded in a Change.
type Action string

// Canonical change actions evaluated by rules.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change records a single mutation within a transaction for rule evaluation.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Violation describes a single rule finding.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates rule findings for one transaction.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking reports whether any violation carries blocking severity.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
