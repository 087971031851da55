package app

import (
	"fmt"
	"regexp"
	"strings"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"

	"irc-client/internal/i18n"
	"irc-client/internal/instance"
	"irc-client/internal/logger"
	"irc-client/internal/resources"
	"irc-client/internal/window"
)

// Names of the actions registered by Startup.
const (
	ActionQuit  = "quit"
	ActionAbout = "about"
)

var idElement = regexp.MustCompile(`^[A-Za-z_-][A-Za-z0-9_-]*$`)

// Options configures an Application. Only ID is required.
type Options struct {
	ID string
	// Name is the display name before localization.
	Name    string
	Version string
	// WindowTemplate is the logical resource path of the main window.
	WindowTemplate string
	Resources      *resources.Bundle
	Logger         logger.Logger
	// Dispatch runs fn on the toolkit's event loop. Defaults to fyne.Do.
	Dispatch func(fn func())
	// SetMetadata publishes the application metadata process-wide.
	// Defaults to fyneapp.SetMetadata.
	SetMetadata func(fyne.AppMetadata)
}

// Application owns the toolkit application, its actions and at most one
// main window.
type Application struct {
	fyneApp   fyne.App
	id        string
	name      string
	version   string
	template  string
	resources *resources.Bundle
	icon      fyne.Resource
	metadata  fyne.AppMetadata
	logger    logger.Logger
	dispatch  func(func())

	actions *ActionMap
	window  *window.ApplicationWindow
	started bool
}

// New wraps fyneApp. It publishes the localized display name, ID, version
// and icon as the application metadata and installs the icon.
func New(fyneApp fyne.App, opts Options) (*Application, error) {
	if fyneApp == nil {
		return nil, fmt.Errorf("app: no toolkit application")
	}
	if err := ValidateID(opts.ID); err != nil {
		return nil, err
	}
	if opts.WindowTemplate == "" {
		opts.WindowTemplate = resources.ApplicationWindowTemplate
	}
	if opts.Resources == nil {
		opts.Resources = resources.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NoOpLogger{}
	}
	if opts.Dispatch == nil {
		opts.Dispatch = fyne.Do
	}
	if opts.SetMetadata == nil {
		opts.SetMetadata = fyneapp.SetMetadata
	}

	a := &Application{
		fyneApp:   fyneApp,
		id:        opts.ID,
		name:      i18n.L(opts.Name),
		version:   opts.Version,
		template:  opts.WindowTemplate,
		resources: opts.Resources,
		logger:    opts.Logger,
		dispatch:  opts.Dispatch,
		actions:   NewActionMap(),
	}

	if icon, err := a.resources.StaticResource(resources.IconPath); err == nil {
		a.icon = icon
		fyneApp.SetIcon(icon)
	} else {
		a.logger.Warning("Application", "application icon unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.metadata = fyne.AppMetadata{
		ID:      a.id,
		Name:    a.name,
		Version: a.version,
		Icon:    a.icon,
	}
	opts.SetMetadata(a.metadata)

	fyneApp.Lifecycle().SetOnStopped(func() {
		a.logger.Info("Application", "toolkit stopped", nil)
	})

	return a, nil
}

// ValidateID accepts reverse-DNS identifiers such as "se.tingping.IrcClient".
func ValidateID(id string) error {
	elements := strings.Split(id, ".")
	if len(id) > 255 || len(elements) < 2 {
		return fmt.Errorf("invalid application id %q", id)
	}
	for _, element := range elements {
		if !idElement.MatchString(element) {
			return fmt.Errorf("invalid application id %q", id)
		}
	}
	return nil
}

// Startup registers the application actions. Only the first call has an
// effect.
func (a *Application) Startup() {
	if a.started {
		return
	}
	a.started = true

	quit := Action{
		Name:     ActionQuit,
		Accel:    &desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: fyne.KeyModifierShortcutDefault},
		Activate: a.Quit,
	}
	about := Action{
		Name:     ActionAbout,
		Activate: a.showAbout,
	}

	for _, action := range []Action{quit, about} {
		if err := a.actions.Add(action); err != nil {
			// Startup runs once on a fresh map.
			panic(err)
		}
	}

	a.logger.Info("Application", "startup complete", map[string]interface{}{
		"id":      a.id,
		"name":    a.name,
		"actions": a.actions.Names(),
	})
}

// Activate presents the main window, creating it first if there is none.
func (a *Application) Activate() error {
	if !a.started {
		a.Startup()
	}

	if a.window != nil && a.window.Closed() {
		a.window = nil
	}

	if a.window == nil {
		w, err := window.New(window.Params{
			Application: a,
			Template:    a.template,
			Resources:   a.resources,
			Translate:   i18n.L,
			Logger:      a.logger,
		})
		if err != nil {
			return fmt.Errorf("creating main window: %w", err)
		}

		w.SetOnClosed(func() {
			if a.window == w {
				a.window = nil
			}
		})
		a.window = w

		a.logger.Info("Application", "main window created", map[string]interface{}{
			"template": a.template,
		})
	}

	a.window.Present()
	return nil
}

// Open activates the application for irc:// and ircs:// URIs. Other URIs
// are logged and skipped.
func (a *Application) Open(uris []string) error {
	accepted := 0
	for _, raw := range uris {
		uri, err := storage.ParseURI(raw)
		if err != nil {
			a.logger.Warning("Application", "received invalid uri to open", map[string]interface{}{
				"uri":   raw,
				"error": err.Error(),
			})
			continue
		}

		scheme := strings.ToLower(uri.Scheme())
		if scheme != "irc" && scheme != "ircs" {
			a.logger.Warning("Application", "received invalid uri to open", map[string]interface{}{
				"uri":    raw,
				"scheme": scheme,
			})
			continue
		}

		a.logger.Info("Application", "opening", map[string]interface{}{"uri": uri.String()})
		accepted++
	}

	if accepted == 0 {
		return nil
	}
	return a.Activate()
}

// Quit asks the toolkit to stop its event loop, with or without a window.
func (a *Application) Quit() {
	a.logger.Info("Application", "quit requested", map[string]interface{}{
		"window_open": a.window != nil,
	})
	a.fyneApp.Quit()
}

// Run starts up, handles command line URIs, shows the main window and
// blocks in the toolkit event loop. It returns the process exit status.
func (a *Application) Run(args []string) int {
	a.Startup()

	err := a.Open(args)
	if err == nil {
		err = a.Activate()
	}
	if err != nil {
		a.logger.Error("Application", err, nil)
		return 1
	}

	a.fyneApp.Run()
	return 0
}

// HandleRequest runs a request forwarded by another process on the
// toolkit's event loop.
func (a *Application) HandleRequest(req instance.Request) error {
	a.dispatch(func() {
		var err error
		if len(req.URIs) > 0 {
			err = a.Open(req.URIs)
		}
		if err == nil {
			err = a.Activate()
		}
		if err != nil {
			a.logger.Error("Application", err, map[string]interface{}{"source": "remote"})
		}
	})
	return nil
}

// Shutdown triggers the quit action from outside the event loop.
func (a *Application) Shutdown() {
	a.dispatch(func() {
		if err := a.ActivateAction(ActionQuit); err != nil {
			a.logger.Error("Application", err, nil)
		}
	})
}

// ActivateAction runs a registered action by bare or "app." scoped name.
func (a *Application) ActivateAction(name string) error {
	return a.actions.Activate(name)
}

// Shortcut returns the accelerator of an action, or nil.
func (a *Application) Shortcut(name string) fyne.Shortcut {
	action, ok := a.actions.Lookup(name)
	if !ok {
		return nil
	}
	return action.Accel
}

func (a *Application) FyneApp() fyne.App {
	return a.fyneApp
}

func (a *Application) ID() string {
	return a.id
}

// Metadata returns the metadata published by New.
func (a *Application) Metadata() fyne.AppMetadata {
	return a.metadata
}

// DisplayName is the localized application name.
func (a *Application) DisplayName() string {
	return a.name
}

func (a *Application) Actions() *ActionMap {
	return a.actions
}

// Window returns the main window, or nil if none is open.
func (a *Application) Window() *window.ApplicationWindow {
	return a.window
}
