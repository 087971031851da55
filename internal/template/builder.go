package template

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ActionActivator runs a named application action.
type ActionActivator interface {
	ActivateAction(name string) error
}

type Builder struct {
	Actions   ActionActivator
	Translate func(string) string
	// OnError receives failures from actions triggered by widgets.
	OnError func(action string, err error)
}

type Built struct {
	Title   string
	Size    fyne.Size
	Root    fyne.CanvasObject
	Menu    *fyne.MainMenu
	Objects map[string]fyne.CanvasObject
	// Actions lists every action the template refers to, without scope.
	Actions []string
	// MenuActions maps menu items to their unscoped action.
	MenuActions map[*fyne.MenuItem]string
}

func (b *Builder) Build(t *Template) (*Built, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	built := &Built{
		Title:       b.tr(t.Title),
		Size:        fyne.NewSize(t.Width, t.Height),
		Objects:     make(map[string]fyne.CanvasObject),
		MenuActions: make(map[*fyne.MenuItem]string),
	}

	root, err := b.node(t.Child, built)
	if err != nil {
		return nil, err
	}
	built.Root = root

	if len(t.Menu) > 0 {
		menus := make([]*fyne.Menu, 0, len(t.Menu))
		for _, m := range t.Menu {
			menus = append(menus, b.menu(m, built))
		}
		built.Menu = fyne.NewMainMenu(menus...)
	}

	return built, nil
}

func (b *Builder) node(n *Node, built *Built) (fyne.CanvasObject, error) {
	obj, err := b.widget(n, built)
	if err != nil {
		return nil, err
	}
	if n.ID != "" {
		built.Objects[n.ID] = obj
	}
	return obj, nil
}

func (b *Builder) children(n *Node, built *Built) ([]fyne.CanvasObject, error) {
	objs := make([]fyne.CanvasObject, 0, len(n.Children))
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		obj, err := b.node(child, built)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func (b *Builder) widget(n *Node, built *Built) (fyne.CanvasObject, error) {
	switch n.Type {
	case TypeBox:
		objs, err := b.children(n, built)
		if err != nil {
			return nil, err
		}
		if n.Orientation == Horizontal {
			return container.NewHBox(objs...), nil
		}
		return container.NewVBox(objs...), nil

	case TypeBorder:
		return b.border(n, built)

	case TypeSplit:
		objs, err := b.children(n, built)
		if err != nil {
			return nil, err
		}
		var split *container.Split
		if n.Orientation == Vertical {
			split = container.NewVSplit(objs[0], objs[1])
		} else {
			split = container.NewHSplit(objs[0], objs[1])
		}
		if n.Offset > 0 {
			split.Offset = n.Offset
		}
		return split, nil

	case TypeScroll:
		objs, err := b.children(n, built)
		if err != nil {
			return nil, err
		}
		return container.NewScroll(objs[0]), nil

	case TypeTabs:
		items := make([]*container.TabItem, 0, len(n.Children))
		for _, child := range n.Children {
			if child == nil {
				continue
			}
			obj, err := b.node(child, built)
			if err != nil {
				return nil, err
			}
			items = append(items, container.NewTabItem(b.tr(child.Text), obj))
		}
		return container.NewAppTabs(items...), nil

	case TypeLabel:
		label := widget.NewLabel(b.tr(n.Text))
		label.TextStyle = fyne.TextStyle{Bold: n.Bold}
		return label, nil

	case TypeEntry:
		var entry *widget.Entry
		if n.Multiline {
			entry = widget.NewMultiLineEntry()
			entry.Wrapping = fyne.TextWrapWord
		} else {
			entry = widget.NewEntry()
		}
		entry.SetPlaceHolder(b.tr(n.Placeholder))
		if n.Text != "" {
			entry.SetText(n.Text)
		}
		if n.ReadOnly {
			entry.Disable()
		}
		return entry, nil

	case TypeButton:
		button := widget.NewButton(b.tr(n.Text), b.trigger(n.Action, built))
		if n.Action == "" {
			button.Disable()
		}
		return button, nil

	case TypeSeparator:
		return widget.NewSeparator(), nil
	}

	return nil, invalid(n.ID, "unknown type %q", n.Type)
}

func (b *Builder) border(n *Node, built *Built) (fyne.CanvasObject, error) {
	var top, bottom, left, right fyne.CanvasObject
	var center []fyne.CanvasObject

	for _, child := range n.Children {
		if child == nil {
			continue
		}
		obj, err := b.node(child, built)
		if err != nil {
			return nil, err
		}
		switch child.Position {
		case "top":
			top = obj
		case "bottom":
			bottom = obj
		case "left":
			left = obj
		case "right":
			right = obj
		default:
			center = append(center, obj)
		}
	}

	return container.NewBorder(top, bottom, left, right, center...), nil
}

func (b *Builder) menu(m Menu, built *Built) *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, len(m.Items))
	for _, item := range m.Items {
		if item.Separator {
			items = append(items, fyne.NewMenuItemSeparator())
			continue
		}

		menuItem := fyne.NewMenuItem(b.tr(item.Label), b.trigger(item.Action, built))
		// Keeps the toolkit from appending its own Quit entry.
		menuItem.IsQuit = item.Action == ActionScope+"quit"
		built.MenuActions[menuItem] = strings.TrimPrefix(item.Action, ActionScope)
		items = append(items, menuItem)
	}
	return fyne.NewMenu(b.tr(m.Label), items...)
}

func (b *Builder) trigger(action string, built *Built) func() {
	if action == "" {
		return nil
	}

	name := strings.TrimPrefix(action, ActionScope)
	built.Actions = appendUnique(built.Actions, name)

	return func() {
		if b.Actions == nil {
			return
		}
		if err := b.Actions.ActivateAction(name); err != nil && b.OnError != nil {
			b.OnError(name, fmt.Errorf("activating %s: %w", action, err))
		}
	}
}

func (b *Builder) tr(s string) string {
	if s == "" || b.Translate == nil {
		return s
	}
	return b.Translate(s)
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
