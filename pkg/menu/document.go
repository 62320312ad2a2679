package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Menu is one named tree within a document.
type Menu struct {
	Name  string
	Nodes []Node
}

// FindSection locates the top-level section with the given label.
func (m Menu) FindSection(text string) (Node, bool) {
	for _, n := range m.Nodes {
		if n.Tag == TagSection && n.Text == text {
			return n, true
		}
	}
	return Node{}, false
}

// Document is the top-level menu configuration: an ordered set of named
// menus. The wire form is a JSON object mapping menu name to a node array;
// key order is meaningful and survives a parse/serialize round trip, which is
// why the type is not a plain map.
type Document struct {
	Menus []Menu
}

// ParseDocument decodes a menu document from its JSON wire form.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// UnmarshalJSON decodes the top-level object through the token stream so menu
// ordering is retained.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("menu document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("menu document: expected top-level object, got %v", tok)
	}
	seen := make(map[string]struct{})
	var menus []Menu
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("menu document: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("menu document: expected menu name, got %v", keyTok)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("menu document: duplicate menu %q", name)
		}
		seen[name] = struct{}{}
		var nodes []Node
		if err := dec.Decode(&nodes); err != nil {
			return fmt.Errorf("menu %q: %w", name, err)
		}
		menus = append(menus, Menu{Name: name, Nodes: nodes})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("menu document: %w", err)
	}
	d.Menus = menus
	return nil
}

// MarshalJSON emits the ordered object form.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range d.Menus {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		nodes := m.Nodes
		if nodes == nil {
			nodes = []Node{}
		}
		body, err := json.Marshal(nodes)
		if err != nil {
			return nil, fmt.Errorf("menu %q: %w", m.Name, err)
		}
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Menu returns the named menu.
func (d Document) Menu(name string) (Menu, bool) {
	for _, m := range d.Menus {
		if m.Name == name {
			return m, true
		}
	}
	return Menu{}, false
}

// Names returns the menu names in document order.
func (d Document) Names() []string {
	out := make([]string, len(d.Menus))
	for i, m := range d.Menus {
		out[i] = m.Name
	}
	return out
}

// ProtocolKeys returns every distinct protocol leaf value in the document,
// ordered by first appearance.
func (d Document) ProtocolKeys() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range d.Menus {
		for i := range m.Nodes {
			m.Nodes[i].Walk(func(n *Node) bool {
				if n.IsLeaf() {
					if _, dup := seen[n.Value]; !dup {
						seen[n.Value] = struct{}{}
						out = append(out, n.Value)
					}
				}
				return true
			})
		}
	}
	return out
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Menus: make([]Menu, len(d.Menus))}
	for i, m := range d.Menus {
		nodes := make([]Node, len(m.Nodes))
		for j := range m.Nodes {
			nodes[j] = m.Nodes[j].Clone()
		}
		out.Menus[i] = Menu{Name: m.Name, Nodes: nodes}
	}
	return out
}

// Equal reports structural equivalence: same menus in the same order with the
// same node set, order, and field values. Nil and empty child lists compare
// equal since the wire form does not distinguish them for leaves.
func (d Document) Equal(other Document) bool {
	if len(d.Menus) != len(other.Menus) {
		return false
	}
	for i := range d.Menus {
		if d.Menus[i].Name != other.Menus[i].Name {
			return false
		}
		if !nodesEqual(d.Menus[i].Nodes, other.Menus[i].Nodes) {
			return false
		}
	}
	return true
}

func nodesEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b Node) bool {
	if a.Tag != b.Tag || a.Text != b.Text || a.Icon != b.Icon ||
		a.OpenItem != b.OpenItem || a.Value != b.Value {
		return false
	}
	return nodesEqual(a.Children, b.Children)
}
