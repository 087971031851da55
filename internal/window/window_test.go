package window

import (
	"errors"
	"testing"
	"testing/fstest"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irc-client/internal/resources"
	"irc-client/internal/template"
)

type fakeOwner struct {
	app       fyne.App
	activated []string
	shortcuts map[string]fyne.Shortcut
}

func newOwner(t *testing.T) *fakeOwner {
	return &fakeOwner{
		app: test.NewTempApp(t),
		shortcuts: map[string]fyne.Shortcut{
			"quit": &desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: fyne.KeyModifierShortcutDefault},
		},
	}
}

func (o *fakeOwner) ActivateAction(name string) error {
	o.activated = append(o.activated, name)
	return nil
}

func (o *fakeOwner) FyneApp() fyne.App {
	return o.app
}

func (o *fakeOwner) Shortcut(action string) fyne.Shortcut {
	return o.shortcuts[action]
}

const smallWindow = `
class: SmallWindow
parent: ApplicationWindow
title: Small
width: 100
height: 50
menu:
  - label: File
    items:
      - {label: Quit, action: app.quit}
child:
  type: box
  children:
    - {type: label, id: greeting, text: Hello}
    - {type: button, id: quit, text: Quit, action: app.quit}
`

func bundle(files map[string]string) *resources.Bundle {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return resources.NewBundle("/test/App", fsys)
}

func TestNew_EmbeddedTemplate(t *testing.T) {
	owner := newOwner(t)

	w, err := New(Params{Application: owner, Template: resources.ApplicationWindowTemplate})
	require.NoError(t, err)

	assert.Equal(t, "Irc Client", w.Window().Title())
	_, ok := w.Object("input-entry")
	assert.True(t, ok)
	_, ok = w.Object("missing")
	assert.False(t, ok)
}

func TestNew_MinimumSize(t *testing.T) {
	owner := newOwner(t)

	w, err := New(Params{
		Application: owner,
		Template:    "/test/App/ui/Small.yaml",
		Resources:   bundle(map[string]string{"ui/Small.yaml": smallWindow}),
	})
	require.NoError(t, err)

	size := w.Window().Canvas().Size()
	assert.GreaterOrEqual(t, size.Width, float32(MinWidth))
	assert.GreaterOrEqual(t, size.Height, float32(MinHeight))
}

func TestNew_MissingTemplate(t *testing.T) {
	owner := newOwner(t)

	_, err := New(Params{Application: owner, Template: resources.BasePath + "/ui/Nope.yaml"})
	require.Error(t, err)
	assert.ErrorIs(t, err, resources.ErrNotFound)
}

func TestNew_MalformedTemplate(t *testing.T) {
	owner := newOwner(t)

	_, err := New(Params{
		Application: owner,
		Template:    "/test/App/ui/Broken.yaml",
		Resources:   bundle(map[string]string{"ui/Broken.yaml": "class: Broken\nparent: Dialog\nchild: {type: label}"}),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, template.ErrInvalid))
}

func TestNew_NoOwner(t *testing.T) {
	_, err := New(Params{Template: resources.ApplicationWindowTemplate})
	assert.Error(t, err)
}

func TestWindow_ActionsReachOwner(t *testing.T) {
	owner := newOwner(t)

	w, err := New(Params{
		Application: owner,
		Template:    "/test/App/ui/Small.yaml",
		Resources:   bundle(map[string]string{"ui/Small.yaml": smallWindow}),
	})
	require.NoError(t, err)

	obj, ok := w.Object("quit")
	require.True(t, ok)
	test.Tap(obj.(*widget.Button))

	item := w.Window().MainMenu().Items[0].Items[0]
	assert.NotNil(t, item.Shortcut)
	item.Action()

	assert.Equal(t, []string{"quit", "quit"}, owner.activated)
}

func TestWindow_PresentAndClose(t *testing.T) {
	owner := newOwner(t)

	w, err := New(Params{Application: owner, Template: resources.ApplicationWindowTemplate})
	require.NoError(t, err)

	calls := 0
	w.SetOnClosed(func() { calls++ })

	w.Present()
	assert.False(t, w.Closed())

	w.Close()
	assert.True(t, w.Closed())
	assert.Equal(t, 1, calls)
}
