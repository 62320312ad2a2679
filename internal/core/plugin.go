package core

import (
	"fmt"
	"sort"
	"strings"

	"menucore/pkg/domain"
	"menucore/pkg/menu"
	"menucore/pkg/pluginapi"
)

// MenuContribution is one named menu tree registered by a plugin, in
// registration order.
type MenuContribution struct {
	Name  string
	Nodes []menu.Node
}

// PluginRegistry accumulates plugin contributions during registration. It
// validates shape eagerly so a malformed plugin fails before any transaction
// starts.
type PluginRegistry struct {
	protocols []domain.ProtocolDescriptor
	menus     []MenuContribution
	rules     []domain.Rule
}

var _ pluginapi.Registry = (*PluginRegistry)(nil)

// NewPluginRegistry constructs a plugin registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{}
}

// RegisterProtocol adds a protocol descriptor contributed by the plugin.
func (r *PluginRegistry) RegisterProtocol(desc domain.ProtocolDescriptor) error {
	if strings.TrimSpace(desc.Key) == "" {
		return fmt.Errorf("protocol descriptor requires a key")
	}
	if strings.TrimSpace(desc.Title) == "" {
		return fmt.Errorf("protocol %s requires a title", desc.Key)
	}
	for _, existing := range r.protocols {
		if existing.Key == desc.Key {
			return fmt.Errorf("protocol %s registered twice", desc.Key)
		}
	}
	r.protocols = append(r.protocols, desc)
	return nil
}

// RegisterMenu adds a named menu tree contributed by the plugin.
func (r *PluginRegistry) RegisterMenu(name string, nodes []menu.Node) error {
	doc := menu.Document{Menus: []menu.Menu{{Name: name, Nodes: nodes}}}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("menu %s: %w", name, err)
	}
	for _, existing := range r.menus {
		if existing.Name == name {
			return fmt.Errorf("menu %s registered twice", name)
		}
	}
	cloned := make([]menu.Node, len(nodes))
	for i := range nodes {
		cloned[i] = nodes[i].Clone()
	}
	r.menus = append(r.menus, MenuContribution{Name: name, Nodes: cloned})
	return nil
}

// RegisterRule adds an in-transaction rule contributed by the plugin.
func (r *PluginRegistry) RegisterRule(rule domain.Rule) {
	if rule == nil {
		return
	}
	r.rules = append(r.rules, rule)
}

// Protocols returns a copy of registered protocol descriptors.
func (r *PluginRegistry) Protocols() []domain.ProtocolDescriptor {
	out := make([]domain.ProtocolDescriptor, len(r.protocols))
	copy(out, r.protocols)
	return out
}

// Menus returns registered menu contributions in registration order.
func (r *PluginRegistry) Menus() []MenuContribution {
	out := make([]MenuContribution, len(r.menus))
	copy(out, r.menus)
	return out
}

// Rules returns a copy of registered rules.
func (r *PluginRegistry) Rules() []domain.Rule {
	out := make([]domain.Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// PluginMetadata stores metadata describing an installed plugin.
type PluginMetadata struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Protocols []string `json:"protocols"`
	Menus     []string `json:"menus"`
}

func metadataFor(plugin pluginapi.Plugin, registry *PluginRegistry) PluginMetadata {
	meta := PluginMetadata{Name: plugin.Name(), Version: plugin.Version()}
	for _, desc := range registry.Protocols() {
		meta.Protocols = append(meta.Protocols, desc.Key)
	}
	sort.Strings(meta.Protocols)
	for _, contribution := range registry.Menus() {
		meta.Menus = append(meta.Menus, contribution.Name)
	}
	return meta
}
