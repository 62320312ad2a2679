// Package core hosts the menu service: plugin installation, protocol
// resolution, and transactional menu document management on top of a
// persistent store.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"menucore/internal/infra/persistence/memory"
	"menucore/pkg/domain"
	"menucore/pkg/menu"
	"menucore/pkg/pluginapi"
)

// Service exposes the host operations backed by the persistent store.
type Service struct {
	store   PersistentStore
	engine  *RulesEngine
	plugins map[string]PluginMetadata
	logger  *slog.Logger
	metrics MetricsRecorder
	tracer  Tracer
	nowFn   func() time.Time
}

// Option customizes service construction.
type Option func(*Service)

// WithLogger sets the structured logger used for operation logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder sets the metrics sink for operation outcomes.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer sets the tracer wrapping service operations.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// NewService constructs a service backed by the supplied store. The engine
// must be the one the store evaluates transactions with so plugin rules take
// effect.
func NewService(store PersistentStore, engine *RulesEngine, opts ...Option) *Service {
	s := &Service{
		store:   store,
		engine:  engine,
		plugins: make(map[string]PluginMetadata),
		logger:  slog.Default(),
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		nowFn:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service with an in-memory store and the
// default rules engine.
func NewInMemoryService(opts ...Option) *Service {
	engine := NewDefaultRulesEngine()
	return NewService(memory.NewStore(engine), engine, opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// ErrNotFound is returned when a lookup misses.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// finish instruments one service operation; the returned func must be called
// with the operation outcome.
func (s *Service) finish(ctx context.Context, operation string) func(error) {
	start := s.nowFn()
	_, span := s.tracer.Start(ctx, operation)
	return func(err error) {
		duration := s.nowFn().Sub(start)
		span.End(err)
		s.metrics.Observe(ctx, operation, err == nil, duration)
		if err != nil {
			s.logger.Error("operation failed", "operation", operation, "error", err)
			return
		}
		s.logger.Debug("operation complete", "operation", operation, "duration", duration)
	}
}

func (s *Service) logWarnings(operation string, res Result) {
	for _, v := range res.Violations {
		if v.Severity == SeverityBlock {
			continue
		}
		s.logger.Warn("rule violation", "operation", operation, "rule", v.Rule, "message", v.Message)
	}
}

// InstallPlugin registers a plugin: its rules join the active engine, then
// its protocol descriptors and menu documents are stored in one transaction.
func (s *Service) InstallPlugin(ctx context.Context, plugin pluginapi.Plugin) (meta PluginMetadata, res Result, err error) {
	done := s.finish(ctx, "install_plugin")
	defer func() { done(err) }()

	if plugin == nil {
		return PluginMetadata{}, Result{}, fmt.Errorf("plugin cannot be nil")
	}
	if _, ok := s.plugins[plugin.Name()]; ok {
		return PluginMetadata{}, Result{}, fmt.Errorf("plugin %s already registered", plugin.Name())
	}

	registry := NewPluginRegistry()
	if err = plugin.Register(registry); err != nil {
		return PluginMetadata{}, Result{}, fmt.Errorf("register plugin %s: %w", plugin.Name(), err)
	}

	for _, rule := range registry.Rules() {
		s.engine.Register(rule)
	}

	res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
		for _, desc := range registry.Protocols() {
			if desc.Plugin == "" {
				desc.Plugin = plugin.Name()
			}
			if desc.PluginVersion == "" {
				desc.PluginVersion = plugin.Version()
			}
			if existing, ok := tx.FindProtocol(desc.Key); ok {
				if existing.Plugin != desc.Plugin {
					return fmt.Errorf("protocol %s already registered by plugin %s", desc.Key, existing.Plugin)
				}
				// Reinstall against a durable store keeps the stored record.
				continue
			}
			if _, err := tx.CreateProtocol(desc); err != nil {
				return err
			}
		}
		for _, contribution := range registry.Menus() {
			if existing, ok := findMenuByName(tx.Snapshot(), contribution.Name); ok {
				if existing.Plugin != plugin.Name() {
					return fmt.Errorf("menu %s already installed by plugin %s", contribution.Name, existing.Plugin)
				}
				// Stored document wins so revisions survive restarts.
				continue
			}
			doc := domain.MenuDocument{
				Name:   contribution.Name,
				Plugin: plugin.Name(),
				Nodes:  contribution.Nodes,
			}
			if _, err := tx.CreateMenuDocument(doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PluginMetadata{}, res, err
	}
	s.logWarnings("install_plugin", res)

	meta = metadataFor(plugin, registry)
	s.plugins[plugin.Name()] = meta
	s.logger.Info("plugin installed", "plugin", meta.Name, "version", meta.Version,
		"protocols", len(meta.Protocols), "menus", len(meta.Menus))
	return meta, res, nil
}

func findMenuByName(view RuleView, name string) (MenuDocument, bool) {
	for _, doc := range view.ListMenuDocuments() {
		if doc.Name == name {
			return doc, true
		}
	}
	return MenuDocument{}, false
}

// Menu returns the installed menu document with the given name.
func (s *Service) Menu(ctx context.Context, name string) (doc MenuDocument, err error) {
	done := s.finish(ctx, "menu")
	defer func() { done(err) }()
	doc, ok := s.store.GetMenuDocumentByName(name)
	if !ok {
		return MenuDocument{}, ErrNotFound{Entity: EntityMenuDocument, ID: name}
	}
	return doc, nil
}

// Menus returns all installed menu documents ordered by name.
func (s *Service) Menus(ctx context.Context) []MenuDocument {
	done := s.finish(ctx, "menus")
	defer done(nil)
	return s.store.ListMenuDocuments()
}

// ResolveProtocol returns the descriptor registered under key.
func (s *Service) ResolveProtocol(ctx context.Context, key string) (desc ProtocolDescriptor, err error) {
	done := s.finish(ctx, "resolve_protocol")
	defer func() { done(err) }()
	desc, ok := s.store.GetProtocol(key)
	if !ok {
		return ProtocolDescriptor{}, ErrNotFound{Entity: EntityProtocol, ID: key}
	}
	return desc, nil
}

// ListProtocols returns all registered protocol descriptors ordered by key.
func (s *Service) ListProtocols(ctx context.Context) []ProtocolDescriptor {
	done := s.finish(ctx, "list_protocols")
	defer done(nil)
	return s.store.ListProtocols()
}

// ReplaceMenuDocument swaps the node tree of the named menu, producing a new
// revision subject to the same rules as installation.
func (s *Service) ReplaceMenuDocument(ctx context.Context, name string, nodes []menu.Node) (doc MenuDocument, res Result, err error) {
	done := s.finish(ctx, "replace_menu_document")
	defer func() { done(err) }()

	existing, ok := s.store.GetMenuDocumentByName(name)
	if !ok {
		return MenuDocument{}, Result{}, ErrNotFound{Entity: EntityMenuDocument, ID: name}
	}
	res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
		var txErr error
		doc, txErr = tx.ReplaceMenuDocument(existing.ID, func(d *MenuDocument) error {
			d.Nodes = make([]menu.Node, len(nodes))
			for i := range nodes {
				d.Nodes[i] = nodes[i].Clone()
			}
			return nil
		})
		return txErr
	})
	if err != nil {
		return MenuDocument{}, res, err
	}
	s.logWarnings("replace_menu_document", res)
	return doc, res, nil
}

// RegisteredPlugins returns metadata describing installed plugins ordered by name.
func (s *Service) RegisteredPlugins() []PluginMetadata {
	out := make([]PluginMetadata, 0, len(s.plugins))
	for _, meta := range s.plugins {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
