// Package template parses declarative window descriptions and turns them
// into toolkit widgets.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// WindowParent is the only base class a window template may extend.
const WindowParent = "ApplicationWindow"

// ActionScope prefixes actions registered on the application.
const ActionScope = "app."

const (
	TypeBox       = "box"
	TypeBorder    = "border"
	TypeSplit     = "split"
	TypeScroll    = "scroll"
	TypeTabs      = "tabs"
	TypeLabel     = "label"
	TypeEntry     = "entry"
	TypeButton    = "button"
	TypeSeparator = "separator"
)

const (
	Horizontal = "horizontal"
	Vertical   = "vertical"
)

var borderPositions = map[string]bool{
	"top": true, "bottom": true, "left": true, "right": true, "center": true,
}

var ErrInvalid = errors.New("invalid template")

type Template struct {
	Class  string  `yaml:"class"`
	Parent string  `yaml:"parent"`
	Title  string  `yaml:"title"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Menu   []Menu  `yaml:"menu"`
	Child  *Node   `yaml:"child"`
}

type Menu struct {
	Label string     `yaml:"label"`
	Items []MenuItem `yaml:"items"`
}

type MenuItem struct {
	Label     string `yaml:"label"`
	Action    string `yaml:"action"`
	Separator bool   `yaml:"separator"`
}

type Node struct {
	Type        string  `yaml:"type"`
	ID          string  `yaml:"id"`
	Text        string  `yaml:"text"`
	Placeholder string  `yaml:"placeholder"`
	Orientation string  `yaml:"orientation"`
	Position    string  `yaml:"position"`
	Action      string  `yaml:"action"`
	Offset      float64 `yaml:"offset"`
	Bold        bool    `yaml:"bold"`
	Multiline   bool    `yaml:"multiline"`
	ReadOnly    bool    `yaml:"readonly"`
	Children    []*Node `yaml:"children"`
}

// Parse decodes and validates a template. Unknown keys are rejected.
func Parse(data []byte) (*Template, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var tpl Template
	if err := decoder.Decode(&tpl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (t *Template) Validate() error {
	if t.Class == "" {
		return invalid("class", "missing class name")
	}
	if t.Parent != WindowParent {
		return invalid("parent", "expected %q, got %q", WindowParent, t.Parent)
	}
	if t.Width < 0 || t.Height < 0 {
		return invalid("size", "negative window size %vx%v", t.Width, t.Height)
	}

	for i, menu := range t.Menu {
		p := fmt.Sprintf("menu[%d]", i)
		if menu.Label == "" {
			return invalid(p, "missing label")
		}
		for j, item := range menu.Items {
			if err := item.validate(fmt.Sprintf("%s.items[%d]", p, j)); err != nil {
				return err
			}
		}
	}

	if t.Child == nil {
		return invalid("child", "template has no content")
	}
	return t.Child.validate("child", make(map[string]bool))
}

func (m MenuItem) validate(p string) error {
	if m.Separator {
		if m.Label != "" || m.Action != "" {
			return invalid(p, "separator takes no label or action")
		}
		return nil
	}
	if m.Label == "" {
		return invalid(p, "missing label")
	}
	return validateAction(p, m.Action, true)
}

func (n *Node) validate(p string, ids map[string]bool) error {
	if n == nil {
		return invalid(p, "empty node")
	}

	if n.ID != "" {
		if ids[n.ID] {
			return invalid(p, "duplicate id %q", n.ID)
		}
		ids[n.ID] = true
	}

	if n.Orientation != "" && n.Type != TypeBox && n.Type != TypeSplit {
		return invalid(p, "%s does not take an orientation", n.Type)
	}
	if n.Orientation != "" && n.Orientation != Horizontal && n.Orientation != Vertical {
		return invalid(p, "unknown orientation %q", n.Orientation)
	}
	if n.Action != "" && n.Type != TypeButton {
		return invalid(p, "%s does not take an action", n.Type)
	}

	switch n.Type {
	case TypeBox:
	case TypeBorder:
		seen := make(map[string]bool)
		for i, child := range n.Children {
			if child == nil {
				continue
			}
			cp := fmt.Sprintf("%s.children[%d]", p, i)
			if !borderPositions[child.Position] {
				return invalid(cp, "border child needs a position, got %q", child.Position)
			}
			if seen[child.Position] && child.Position != "center" {
				return invalid(cp, "position %q used twice", child.Position)
			}
			seen[child.Position] = true
		}
	case TypeSplit:
		if len(n.Children) != 2 {
			return invalid(p, "split needs exactly 2 children, got %d", len(n.Children))
		}
		if n.Offset < 0 || n.Offset > 1 {
			return invalid(p, "split offset %v outside [0,1]", n.Offset)
		}
	case TypeScroll:
		if len(n.Children) != 1 {
			return invalid(p, "scroll needs exactly 1 child, got %d", len(n.Children))
		}
	case TypeTabs:
		for i, child := range n.Children {
			if child != nil && child.Text == "" {
				return invalid(fmt.Sprintf("%s.children[%d]", p, i), "tab needs a text label")
			}
		}
	case TypeLabel, TypeEntry, TypeSeparator:
		if len(n.Children) > 0 {
			return invalid(p, "%s cannot have children", n.Type)
		}
	case TypeButton:
		if len(n.Children) > 0 {
			return invalid(p, "button cannot have children")
		}
		if err := validateAction(p, n.Action, false); err != nil {
			return err
		}
	case "":
		return invalid(p, "missing type")
	default:
		return invalid(p, "unknown type %q", n.Type)
	}

	if n.Position != "" && !borderPositions[n.Position] {
		return invalid(p, "unknown position %q", n.Position)
	}

	for i, child := range n.Children {
		if err := child.validate(fmt.Sprintf("%s.children[%d]", p, i), ids); err != nil {
			return err
		}
	}
	return nil
}

func validateAction(p, action string, required bool) error {
	if action == "" {
		if required {
			return invalid(p, "missing action")
		}
		return nil
	}
	if !strings.HasPrefix(action, ActionScope) || len(action) == len(ActionScope) {
		return invalid(p, "action %q must be %s<name>", action, ActionScope)
	}
	return nil
}

func invalid(p, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, p, fmt.Sprintf(format, args...))
}
