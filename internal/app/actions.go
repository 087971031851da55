package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"

	"irc-client/internal/template"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrDuplicateAction = errors.New("action already registered")
)

// Action is a named, parameterless operation exposed to menus, buttons,
// shortcuts and other processes.
type Action struct {
	Name     string
	Accel    fyne.Shortcut
	Activate func()
}

type ActionMap struct {
	actions map[string]*Action
}

func NewActionMap() *ActionMap {
	return &ActionMap{actions: make(map[string]*Action)}
}

// Add registers an action. Names must be unique and unscoped, and the
// action needs a handler.
func (m *ActionMap) Add(action Action) error {
	if action.Name == "" || strings.Contains(action.Name, ".") {
		return fmt.Errorf("invalid action name %q", action.Name)
	}
	if action.Activate == nil {
		return fmt.Errorf("action %q has no handler", action.Name)
	}
	if _, exists := m.actions[action.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, action.Name)
	}

	a := action
	m.actions[action.Name] = &a
	return nil
}

// Lookup accepts bare ("quit") and scoped ("app.quit") names.
func (m *ActionMap) Lookup(name string) (*Action, bool) {
	action, ok := m.actions[strings.TrimPrefix(name, template.ActionScope)]
	return action, ok
}

func (m *ActionMap) Activate(name string) error {
	action, ok := m.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	action.Activate()
	return nil
}

func (m *ActionMap) Names() []string {
	names := make([]string, 0, len(m.actions))
	for name := range m.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
