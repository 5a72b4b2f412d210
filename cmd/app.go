package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/kv"
	"github.com/nibzard/tasklist-go/internal/locale"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/session"
	"github.com/nibzard/tasklist-go/internal/storage"
)

// app wires the store, storage client and controller for one command.
type app struct {
	cfg     *config.Config
	msgs    locale.Messages
	logger  *log.Logger
	logs    *logging.Session
	store   kv.Store
	client  *storage.Client
	ctrl    *session.Controller
	command string
}

// openApp opens the configured store and a session log. A log file that
// cannot be created is reported on stderr and logging is disabled.
func openApp(ctx context.Context, cfg *config.Config, command string) (*app, error) {
	a := &app{
		cfg:     cfg,
		msgs:    locale.For(cfg.Locale),
		logger:  logging.Discard(),
		command: command,
	}

	logs, err := logging.NewSession(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: session log disabled: %v\n", err)
	} else {
		a.logs = logs
		a.logger = logging.New(logs.Writer(), logging.Options{
			Level:      cfg.LogLevel,
			Format:     cfg.LogFormat,
			Timestamps: cfg.LogTimestamps,
			Caller:     cfg.LogCaller,
			Prefix:     "tasklist",
		})
	}
	a.logger.Info("session started", "command", command, "store", cfg.Store, "key", cfg.StoreKey)

	store, err := kv.Open(ctx, cfg.StoreOptions())
	if err != nil {
		a.logger.Error("open store failed", "store", cfg.Store, "err", err)
		_ = a.logs.Close()
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}
	a.store = store

	a.client = storage.New(store,
		storage.WithKey(cfg.StoreKey),
		storage.WithLatency(cfg.Latency()),
		storage.WithLogger(a.logger.WithPrefix("storage")),
	)
	a.ctrl = session.New(a.client,
		session.WithMessages(a.msgs),
		session.WithLogger(a.logger.WithPrefix("session")),
	)
	return a, nil
}

// Close releases the store and the session log.
func (a *app) Close() error {
	a.logger.Info("session finished", "command", a.command)
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	errs = append(errs, a.logs.Close())
	return errors.Join(errs...)
}
