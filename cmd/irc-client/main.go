package main

import (
	"context"
	"errors"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"irc-client/internal/app"
	"irc-client/internal/config"
	"irc-client/internal/i18n"
	"irc-client/internal/instance"
	"irc-client/internal/logger"
	"irc-client/internal/requirements"
	"irc-client/internal/resources"
	"irc-client/internal/shutdown"
)

// environment is what run takes from the process: its configuration, the
// versions of the linked modules and the toolkit application.
type environment struct {
	config   func() config.Config
	resolver requirements.Resolver
	newApp   func(id string) fyne.App
}

func defaultEnvironment() environment {
	return environment{
		config:   config.FromEnv,
		resolver: requirements.BuildInfo(),
		newApp:   func(id string) fyne.App { return fyneapp.NewWithID(id) },
	}
}

func main() {
	os.Exit(run(os.Args[1:], defaultEnvironment()))
}

// run starts the client and returns the process exit status. Binding
// checks happen before any toolkit object exists.
func run(args []string, env environment) int {
	cfg := env.config()
	log := logger.New(cfg.LogLevel, cfg.UseJSONLogging)

	if err := requirements.Check(requirements.Declared(), env.resolver); err != nil {
		log.Error("Main", err, map[string]interface{}{"stage": "requirements"})
		return 1
	}

	files, dir := resources.Translations()
	tag, err := i18n.Init(files, dir, cfg.Language)
	if err != nil {
		log.Warning("Main", "localization unavailable, using defaults", map[string]interface{}{
			"language": cfg.Language,
			"error":    err.Error(),
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownManager := shutdown.NewManager(log)
	shutdownManager.Register(shutdown.Func(cancel))

	var registration *instance.Registration
	if cfg.SingleInstance {
		registration, err = instance.Acquire(ctx, cfg.RuntimeDir, config.AppID, log)
		if errors.Is(err, instance.ErrAlreadyRunning) {
			return forward(ctx, cfg, log, args)
		}
		if err != nil {
			log.Error("Main", err, map[string]interface{}{"stage": "registration"})
			return 1
		}
		defer registration.Close()
	}

	application, err := app.New(env.newApp(config.AppID), app.Options{
		ID:             config.AppID,
		Name:           config.AppName,
		Version:        config.AppVersion,
		WindowTemplate: resources.ApplicationWindowTemplate,
		Logger:         log,
	})
	if err != nil {
		log.Error("Main", err, map[string]interface{}{"stage": "application"})
		return 1
	}

	fields := map[string]interface{}{
		"id":              config.AppID,
		"version":         config.AppVersion,
		"language":        tag.String(),
		"single_instance": cfg.SingleInstance,
		"go_version":      runtime.Version(),
	}

	if registration != nil {
		fields["socket"] = registration.Path()
		shutdownManager.Register(registration)
		go func() {
			if err := registration.Serve(application.HandleRequest); err != nil {
				log.Error("Main", err, map[string]interface{}{"stage": "registration"})
			}
		}()
	}
	shutdownManager.Register(application)
	shutdownManager.Listen(ctx)

	log.Info("Main", "starting", fields)

	return application.Run(args)
}

// forward hands the command line to the running instance and exits.
func forward(ctx context.Context, cfg config.Config, log logger.Logger, args []string) int {
	err := instance.Forward(ctx, cfg.RuntimeDir, config.AppID, instance.Request{
		Command: instance.CommandActivate,
		URIs:    args,
	})
	if err != nil {
		log.Error("Main", err, map[string]interface{}{"stage": "forward"})
		return 1
	}

	log.Info("Main", "activated running instance", nil)
	return 0
}
