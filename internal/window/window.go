// Package window builds the main application window from its template.
package window

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"irc-client/internal/logger"
	"irc-client/internal/resources"
	"irc-client/internal/template"
)

// MinWidth and MinHeight bound the initial size taken from a template.
const MinWidth, MinHeight = 640, 400

// Owner is what a window needs from the application that creates it.
type Owner interface {
	template.ActionActivator
	FyneApp() fyne.App
	// Shortcut returns the keyboard accelerator bound to an action, if any.
	Shortcut(action string) fyne.Shortcut
}

// Params describes the window to build. Resources, Translate and Logger
// are optional.
type Params struct {
	Application Owner
	// Template is the logical resource path of the window description.
	Template  string
	Resources *resources.Bundle
	Translate func(string) string
	Logger    logger.Logger
}

// ApplicationWindow is the main window of an application, built from a
// declarative template.
type ApplicationWindow struct {
	window   fyne.Window
	objects  map[string]fyne.CanvasObject
	logger   logger.Logger
	onClosed []func()
	closed   bool
}

// New loads, parses and builds the template at params.Template and creates
// the toolkit window for it. A missing template is reported as
// resources.ErrNotFound; there is no fallback layout.
func New(params Params) (*ApplicationWindow, error) {
	if params.Application == nil {
		return nil, fmt.Errorf("window: no owning application")
	}
	if params.Resources == nil {
		params.Resources = resources.Default()
	}
	if params.Logger == nil {
		params.Logger = logger.NoOpLogger{}
	}

	data, err := params.Resources.Lookup(params.Template)
	if err != nil {
		return nil, fmt.Errorf("loading window template: %w", err)
	}

	tpl, err := template.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", params.Template, err)
	}

	log := params.Logger
	builder := &template.Builder{
		Actions:   params.Application,
		Translate: params.Translate,
		OnError: func(action string, err error) {
			log.Error("ApplicationWindow", err, map[string]interface{}{"action": action})
		},
	}

	built, err := builder.Build(tpl)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", params.Template, err)
	}

	w := &ApplicationWindow{
		window:  params.Application.FyneApp().NewWindow(built.Title),
		objects: built.Objects,
		logger:  log,
	}

	w.window.Resize(windowSize(built.Size))
	w.window.SetContent(built.Root)
	w.bindShortcuts(params.Application, built)
	if built.Menu != nil {
		w.window.SetMainMenu(built.Menu)
	}
	w.window.SetMaster()
	w.window.CenterOnScreen()

	w.window.SetOnClosed(func() {
		w.closed = true
		log.Debug("ApplicationWindow", "window closed", nil)
		for _, fn := range w.onClosed {
			fn()
		}
	})

	log.Debug("ApplicationWindow", "window built", map[string]interface{}{
		"class":    tpl.Class,
		"template": params.Template,
		"objects":  len(built.Objects),
	})

	return w, nil
}

func windowSize(requested fyne.Size) fyne.Size {
	width := requested.Width
	height := requested.Height
	if width < MinWidth {
		width = MinWidth
	}
	if height < MinHeight {
		height = MinHeight
	}
	return fyne.NewSize(width, height)
}

// bindShortcuts adds canvas shortcuts for template actions that have one
// and shows desktop accelerators next to their menu items.
func (w *ApplicationWindow) bindShortcuts(owner Owner, built *template.Built) {
	for _, name := range built.Actions {
		shortcut := owner.Shortcut(name)
		if shortcut == nil {
			continue
		}

		action := name
		w.window.Canvas().AddShortcut(shortcut, func(fyne.Shortcut) {
			if err := owner.ActivateAction(action); err != nil {
				w.logger.Error("ApplicationWindow", err, map[string]interface{}{"action": action})
			}
		})
	}

	for item, action := range built.MenuActions {
		if item.Shortcut != nil {
			continue
		}
		if shortcut, ok := owner.Shortcut(action).(*desktop.CustomShortcut); ok {
			item.Shortcut = shortcut
		}
	}
}

// Present shows the window and gives it focus.
func (w *ApplicationWindow) Present() {
	w.window.Show()
	w.window.RequestFocus()
}

func (w *ApplicationWindow) Close() {
	w.window.Close()
}

// Closed reports whether the window has been closed.
func (w *ApplicationWindow) Closed() bool {
	return w.closed
}

// SetOnClosed adds a callback run after the window has been closed.
func (w *ApplicationWindow) SetOnClosed(fn func()) {
	w.onClosed = append(w.onClosed, fn)
}

// Window returns the underlying toolkit window.
func (w *ApplicationWindow) Window() fyne.Window {
	return w.window
}

// Object returns the widget declared with the given id in the template.
func (w *ApplicationWindow) Object(id string) (fyne.CanvasObject, bool) {
	obj, ok := w.objects[id]
	return obj, ok
}
