package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rorical/RoriBoard/internal/api"
	"github.com/Rorical/RoriBoard/internal/config"
	"github.com/Rorical/RoriBoard/internal/logging"
	"github.com/Rorical/RoriBoard/internal/session"
)

// Options are the process-wide flags.
type Options struct {
	Profile string
	Verbose bool
}

// Environment is the wiring shared by the TUI and the one-shot commands:
// the loaded config, the logger, the persisted session and the API client.
type Environment struct {
	Config  *config.Config
	Logger  *zap.Logger
	Session *session.Store
	Client  *api.Client
}

func Open(ctx context.Context, opts Options) (*Environment, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if opts.Profile != "" {
		if err := cfg.Use(opts.Profile); err != nil {
			return nil, err
		}
	}

	logger := logging.NewOrNop(cfg.Dir(), opts.Verbose)

	backend, err := session.OpenSQLite(ctx, cfg.SessionPath())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open session store: %w", err)
	}
	store, err := session.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()
		_ = logger.Sync()
		return nil, err
	}

	profile := cfg.Current()
	client := api.New(profile.BaseURL, store,
		api.WithLogger(logger.Named("api")),
		api.WithTimeout(profile.RequestTimeout),
	)
	logger.Debug("environment ready",
		zap.String("profile", cfg.ActiveProfile),
		zap.String("base_url", client.BaseURL()),
		zap.Bool("authenticated", store.Authenticated()),
	)

	return &Environment{Config: cfg, Logger: logger, Session: store, Client: client}, nil
}

func (e *Environment) Close() error {
	err := e.Session.Close()
	_ = e.Logger.Sync()
	return err
}
