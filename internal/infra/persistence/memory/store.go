// Package memory implements the transactional in-memory store that backs
// every persistence driver. Durable drivers reuse it as their source of
// truth and snapshot its state after successful transactions.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"menucore/pkg/domain"
)

type (
	MenuDocument       = domain.MenuDocument
	ProtocolDescriptor = domain.ProtocolDescriptor
	Change             = domain.Change
	Result             = domain.Result
	RulesEngine        = domain.RulesEngine
	Transaction        = domain.Transaction
	RuleView           = domain.RuleView
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

type memoryState struct {
	menus     map[string]MenuDocument       // keyed by document ID
	protocols map[string]ProtocolDescriptor // keyed by protocol key
}

func newMemoryState() memoryState {
	return memoryState{
		menus:     make(map[string]MenuDocument),
		protocols: make(map[string]ProtocolDescriptor),
	}
}

func (st memoryState) clone() memoryState {
	out := newMemoryState()
	for id, doc := range st.menus {
		out.menus[id] = cloneMenuDocument(doc)
	}
	for key, desc := range st.protocols {
		out.protocols[key] = desc
	}
	return out
}

func cloneMenuDocument(doc MenuDocument) MenuDocument {
	cp := doc
	cp.Nodes = doc.CloneNodes()
	return cp
}

// Snapshot captures a point-in-time clone of the store state for external
// persistence. Lists are ordered deterministically.
type Snapshot struct {
	Menus     []MenuDocument       `json:"menus"`
	Protocols []ProtocolDescriptor `json:"protocols"`
}

func snapshotFromState(st memoryState) Snapshot {
	s := Snapshot{
		Menus:     make([]MenuDocument, 0, len(st.menus)),
		Protocols: make([]ProtocolDescriptor, 0, len(st.protocols)),
	}
	for _, doc := range st.menus {
		s.Menus = append(s.Menus, cloneMenuDocument(doc))
	}
	for _, desc := range st.protocols {
		s.Protocols = append(s.Protocols, desc)
	}
	sort.Slice(s.Menus, func(i, j int) bool { return s.Menus[i].Name < s.Menus[j].Name })
	sort.Slice(s.Protocols, func(i, j int) bool { return s.Protocols[i].Key < s.Protocols[j].Key })
	return s
}

func stateFromSnapshot(s Snapshot) memoryState {
	st := newMemoryState()
	for _, doc := range s.Menus {
		st.menus[doc.ID] = cloneMenuDocument(doc)
	}
	for _, desc := range s.Protocols {
		st.protocols[desc.Key] = desc
	}
	return st
}

// Store is the in-memory transactional store.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromSnapshot(snapshot)
}

// NowFunc returns the clock used to stamp records, for deterministic tests.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc overrides the record clock.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

// RulesEngine exposes the configured engine for integration points like plugin installation.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

type ruleView struct {
	state *memoryState
}

func newRuleView(state *memoryState) RuleView {
	return ruleView{state: state}
}

// ListMenuDocuments returns all menu documents ordered by name.
func (v ruleView) ListMenuDocuments() []MenuDocument {
	out := make([]MenuDocument, 0, len(v.state.menus))
	for _, doc := range v.state.menus {
		out = append(out, cloneMenuDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListProtocols returns all protocol descriptors ordered by key.
func (v ruleView) ListProtocols() []ProtocolDescriptor {
	out := make([]ProtocolDescriptor, 0, len(v.state.protocols))
	for _, desc := range v.state.protocols {
		out = append(out, desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (v ruleView) FindMenuDocument(id string) (MenuDocument, bool) {
	doc, ok := v.state.menus[id]
	if !ok {
		return MenuDocument{}, false
	}
	return cloneMenuDocument(doc), true
}

func (v ruleView) FindProtocol(key string) (ProtocolDescriptor, bool) {
	desc, ok := v.state.protocols[key]
	return desc, ok
}

// RunInTransaction executes fn within a transactional copy of the store
// state. Registered rules evaluate against the post-mutation state; blocking
// violations roll the transaction back.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newRuleView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(RuleView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newRuleView(&snapshot))
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() RuleView {
	return newRuleView(&tx.state)
}

// CreateMenuDocument stores a new menu document. Document names are unique
// across the store: the host serves exactly one tree per menu name.
func (tx *transaction) CreateMenuDocument(doc MenuDocument) (MenuDocument, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return MenuDocument{}, fmt.Errorf("menu document requires a name")
	}
	for _, existing := range tx.state.menus {
		if existing.Name == doc.Name {
			return MenuDocument{}, fmt.Errorf("menu document %q already exists", doc.Name)
		}
	}
	if doc.ID == "" {
		doc.ID = tx.store.newID()
	}
	if _, exists := tx.state.menus[doc.ID]; exists {
		return MenuDocument{}, fmt.Errorf("menu document id %s already exists", doc.ID)
	}
	if doc.Revision == 0 {
		doc.Revision = 1
	}
	doc.CreatedAt = tx.now
	doc.UpdatedAt = tx.now
	stored := cloneMenuDocument(doc)
	tx.state.menus[doc.ID] = stored
	tx.recordChange(Change{Entity: domain.EntityMenuDocument, Action: domain.ActionCreate, After: cloneMenuDocument(stored)})
	return cloneMenuDocument(stored), nil
}

// ReplaceMenuDocument applies mutator to a copy of the stored document and
// commits it as the next revision.
func (tx *transaction) ReplaceMenuDocument(id string, mutator func(*MenuDocument) error) (MenuDocument, error) {
	existing, ok := tx.state.menus[id]
	if !ok {
		return MenuDocument{}, fmt.Errorf("menu document %s not found", id)
	}
	before := cloneMenuDocument(existing)
	updated := cloneMenuDocument(existing)
	if err := mutator(&updated); err != nil {
		return MenuDocument{}, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.Revision = existing.Revision + 1
	updated.UpdatedAt = tx.now
	tx.state.menus[id] = cloneMenuDocument(updated)
	tx.recordChange(Change{Entity: domain.EntityMenuDocument, Action: domain.ActionUpdate, Before: before, After: cloneMenuDocument(updated)})
	return cloneMenuDocument(updated), nil
}

// DeleteMenuDocument removes a stored menu document.
func (tx *transaction) DeleteMenuDocument(id string) error {
	existing, ok := tx.state.menus[id]
	if !ok {
		return fmt.Errorf("menu document %s not found", id)
	}
	delete(tx.state.menus, id)
	tx.recordChange(Change{Entity: domain.EntityMenuDocument, Action: domain.ActionDelete, Before: cloneMenuDocument(existing)})
	return nil
}

// CreateProtocol registers a protocol descriptor under its key.
func (tx *transaction) CreateProtocol(desc ProtocolDescriptor) (ProtocolDescriptor, error) {
	if strings.TrimSpace(desc.Key) == "" {
		return ProtocolDescriptor{}, fmt.Errorf("protocol descriptor requires a key")
	}
	if _, exists := tx.state.protocols[desc.Key]; exists {
		return ProtocolDescriptor{}, fmt.Errorf("protocol %s already registered", desc.Key)
	}
	if desc.ID == "" {
		desc.ID = tx.store.newID()
	}
	desc.CreatedAt = tx.now
	desc.UpdatedAt = tx.now
	tx.state.protocols[desc.Key] = desc
	tx.recordChange(Change{Entity: domain.EntityProtocol, Action: domain.ActionCreate, After: desc})
	return desc, nil
}

// DeleteProtocol removes a protocol descriptor by key.
func (tx *transaction) DeleteProtocol(key string) error {
	existing, ok := tx.state.protocols[key]
	if !ok {
		return fmt.Errorf("protocol %s not found", key)
	}
	delete(tx.state.protocols, key)
	tx.recordChange(Change{Entity: domain.EntityProtocol, Action: domain.ActionDelete, Before: existing})
	return nil
}

// FindMenuDocument exposes document lookup within the transaction scope.
func (tx *transaction) FindMenuDocument(id string) (MenuDocument, bool) {
	doc, ok := tx.state.menus[id]
	if !ok {
		return MenuDocument{}, false
	}
	return cloneMenuDocument(doc), true
}

// FindProtocol exposes protocol lookup within the transaction scope.
func (tx *transaction) FindProtocol(key string) (ProtocolDescriptor, bool) {
	desc, ok := tx.state.protocols[key]
	return desc, ok
}

// GetMenuDocument returns a stored document by ID.
func (s *Store) GetMenuDocument(id string) (MenuDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.state.menus[id]
	if !ok {
		return MenuDocument{}, false
	}
	return cloneMenuDocument(doc), true
}

// GetMenuDocumentByName returns a stored document by menu name.
func (s *Store) GetMenuDocumentByName(name string) (MenuDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.state.menus {
		if doc.Name == name {
			return cloneMenuDocument(doc), true
		}
	}
	return MenuDocument{}, false
}

// ListMenuDocuments returns stored documents ordered by name.
func (s *Store) ListMenuDocuments() []MenuDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newRuleView(&s.state).ListMenuDocuments()
}

// GetProtocol returns a protocol descriptor by key.
func (s *Store) GetProtocol(key string) (ProtocolDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	desc, ok := s.state.protocols[key]
	return desc, ok
}

// ListProtocols returns protocol descriptors ordered by key.
func (s *Store) ListProtocols() []ProtocolDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newRuleView(&s.state).ListProtocols()
}
