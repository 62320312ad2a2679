package domain

import "context"

// Transaction exposes the host operations a persistence implementation must
// support within an atomic scope.
type Transaction interface {
	Snapshot() RuleView
	CreateMenuDocument(MenuDocument) (MenuDocument, error)
	ReplaceMenuDocument(id string, mutator func(*MenuDocument) error) (MenuDocument, error)
	DeleteMenuDocument(id string) error
	CreateProtocol(ProtocolDescriptor) (ProtocolDescriptor, error)
	DeleteProtocol(key string) error
	FindMenuDocument(id string) (MenuDocument, bool)
	FindProtocol(key string) (ProtocolDescriptor, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(RuleView) error) error
	GetMenuDocument(id string) (MenuDocument, bool)
	GetMenuDocumentByName(name string) (MenuDocument, bool)
	ListMenuDocuments() []MenuDocument
	GetProtocol(key string) (ProtocolDescriptor, bool)
	ListProtocols() []ProtocolDescriptor
}
