// Package menu defines the declarative protocol-menu tree contributed by
// plugins and rendered by the host application. The tree is pure data: every
// node carries a display tag, a label, and an ordered child list, and protocol
// leaves reference a protocol registered with the host by its key.
package menu

import "encoding/json"

// Tag identifies the role of a node within the menu tree.
type Tag string

// Recognized node tags. Order of children is meaningful for every tag and is
// preserved through parsing and serialization.
const (
	// TagSection is a top-level grouping rendered as a collapsible header.
	TagSection Tag = "section"
	// TagProtocolGroup is a second-level grouping beneath a section.
	TagProtocolGroup Tag = "protocol_group"
	// TagProtocol is a leaf whose Value is resolved against the host registry.
	TagProtocol Tag = "protocol"
)

// Open/closed state literals carried by OpenItem. The field is string-typed
// rather than boolean to stay wire-compatible with documents produced by the
// upstream ecosystem.
const (
	OpenTrue  = "True"
	OpenFalse = "False"
)

// Node is a single entry in the menu tree. Section and protocol-group nodes
// carry children (possibly empty); protocol leaves carry a Value and no
// children.
type Node struct {
	Tag      Tag    `json:"tag"`
	Text     string `json:"text"`
	Icon     string `json:"icon,omitempty"`
	OpenItem string `json:"openItem,omitempty"`
	Value    string `json:"value,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// IsLeaf reports whether the node is a protocol leaf.
func (n Node) IsLeaf() bool { return n.Tag == TagProtocol }

// MarshalJSON emits the node in its wire form. Grouping nodes always carry an
// explicit children array, even when empty, because the host loader treats a
// missing list and an empty one differently; leaves omit it entirely.
func (n Node) MarshalJSON() ([]byte, error) {
	type wire struct {
		Tag      Tag     `json:"tag"`
		Text     string  `json:"text"`
		Icon     string  `json:"icon,omitempty"`
		OpenItem string  `json:"openItem,omitempty"`
		Value    string  `json:"value,omitempty"`
		Children *[]Node `json:"children,omitempty"`
	}
	w := wire{Tag: n.Tag, Text: n.Text, Icon: n.Icon, OpenItem: n.OpenItem, Value: n.Value}
	if !n.IsLeaf() || n.Children != nil {
		children := n.Children
		if children == nil {
			children = []Node{}
		}
		w.Children = &children
	}
	return json.Marshal(w)
}

// Open reports whether the node should render expanded by default.
// Absent or any value other than "True" renders collapsed.
func (n Node) Open() bool { return n.OpenItem == OpenTrue }

// SetOpen records the default expand state using the wire literals.
func (n *Node) SetOpen(open bool) {
	if open {
		n.OpenItem = OpenTrue
		return
	}
	n.OpenItem = OpenFalse
}

// Walk visits the node and all descendants in render order. Returning false
// from fn stops the walk early.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Walk(fn) {
			return false
		}
	}
	return true
}

// Leaves returns the protocol leaves under the node in render order.
func (n *Node) Leaves() []Node {
	var out []Node
	n.Walk(func(cur *Node) bool {
		if cur.IsLeaf() {
			out = append(out, *cur)
		}
		return true
	})
	return out
}

// FindGroup locates the first descendant protocol group with the given label.
func (n *Node) FindGroup(text string) (Node, bool) {
	var found Node
	ok := false
	n.Walk(func(cur *Node) bool {
		if cur.Tag == TagProtocolGroup && cur.Text == text {
			found = *cur
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	if n.Children != nil {
		out.Children = make([]Node, len(n.Children))
		for i := range n.Children {
			out.Children[i] = n.Children[i].Clone()
		}
	}
	return out
}

// Section constructs a section node with the given children. A nil child
// slice is normalized to an empty one so the section serializes with an
// explicit children list.
func Section(text string, children ...Node) Node {
	if children == nil {
		children = []Node{}
	}
	return Node{Tag: TagSection, Text: text, Children: children}
}

// Group constructs a protocol-group node with the given children.
func Group(text string, children ...Node) Node {
	if children == nil {
		children = []Node{}
	}
	return Node{Tag: TagProtocolGroup, Text: text, Children: children}
}

// Protocol constructs a protocol leaf referencing the given registry key.
func Protocol(text, value string) Node {
	return Node{Tag: TagProtocol, Text: text, Value: value}
}
