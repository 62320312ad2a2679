package menu

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the structural invariants of the document:
//
//   - every node carries a recognized tag and a non-empty label,
//   - protocol leaves carry a non-empty value and no children,
//   - section and protocol-group nodes carry a children list (possibly
//     empty) and no value,
//   - top-level nodes are sections,
//   - openItem, when present, is one of the wire literals.
//
// Errors are annotated with the node path, e.g.
// `Virtual Screening[0].children[2]: protocol node missing value`.
func (d Document) Validate() error {
	if len(d.Menus) == 0 {
		return errors.New("document has no menus")
	}
	for _, m := range d.Menus {
		if strings.TrimSpace(m.Name) == "" {
			return errors.New("menu with empty name")
		}
		for i := range m.Nodes {
			path := fmt.Sprintf("%s[%d]", m.Name, i)
			if m.Nodes[i].Tag != TagSection {
				return fmt.Errorf("%s: top-level node must be a section, got %q", path, m.Nodes[i].Tag)
			}
			if err := m.Nodes[i].Validate(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	return nil
}

// Validate checks the node and its descendants against the structural
// invariants described on Document.Validate.
func (n Node) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return errors.New("node missing text")
	}
	if n.OpenItem != "" && n.OpenItem != OpenTrue && n.OpenItem != OpenFalse {
		return fmt.Errorf("invalid openItem %q", n.OpenItem)
	}
	switch n.Tag {
	case TagProtocol:
		if strings.TrimSpace(n.Value) == "" {
			return errors.New("protocol node missing value")
		}
		if len(n.Children) > 0 {
			return fmt.Errorf("protocol node %q must not have children", n.Value)
		}
		return nil
	case TagSection, TagProtocolGroup:
		if n.Value != "" {
			return fmt.Errorf("%s node must not carry a value", n.Tag)
		}
		if n.Children == nil {
			return fmt.Errorf("%s node missing children list", n.Tag)
		}
		for i := range n.Children {
			if err := n.Children[i].Validate(); err != nil {
				return fmt.Errorf("children[%d]: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown tag %q", n.Tag)
	}
}
