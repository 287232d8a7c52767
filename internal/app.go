package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/starford/notepad/internal/client"
	"github.com/starford/notepad/internal/mcpserver"
	"github.com/starford/notepad/internal/notepad"
	"github.com/starford/notepad/internal/noteservice"
	"github.com/starford/notepad/internal/seed"
	"github.com/starford/notepad/internal/store"
	"github.com/starford/notepad/internal/tui"
	"github.com/starford/notepad/internal/watch"
)

// gateway is what the hosts need from a backend.
type gateway interface {
	notepad.Gateway
	seed.Target
}

// backend is either the local SQLite store or a remote notepad server.
type backend struct {
	gw gateway
	// follow calls onChange whenever the notes may have changed elsewhere,
	// until ctx is cancelled.
	follow func(ctx context.Context, onChange func()) error
	close  func() error
}

func openBackend(cfg *Config, logger *slog.Logger) (*backend, error) {
	if cfg.Remote.Enabled() {
		c := client.New(cfg.Remote.BaseURL, cfg.Remote.Token, client.WithTimeout(cfg.Remote.Timeout))
		logger.Info("using remote backend", slog.String("base_url", cfg.Remote.BaseURL))
		return &backend{
			gw: c,
			follow: func(ctx context.Context, onChange func()) error {
				done, err := c.Subscribe(ctx, onChange)
				if err != nil {
					return err
				}
				<-done
				return nil
			},
			close: func() error { return nil },
		}, nil
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info("using local backend", slog.String("sqlite_path", cfg.SQLite.Path))
	return &backend{
		gw: noteservice.NewService(db, nil, logger),
		follow: func(ctx context.Context, onChange func()) error {
			return watch.Watch(ctx, cfg.SQLite.Path, 0, logger, onChange)
		},
		close: db.Close,
	}, nil
}

func controllerOptions(cfg *Config, logger *slog.Logger) []notepad.Option {
	opts := []notepad.Option{
		notepad.WithVariant(notepad.Variant(cfg.View.Variant)),
		notepad.WithUser(cfg.User.ID, cfg.User.Name),
		notepad.WithLocation(cfg.View.Location()),
		notepad.WithLogger(logger),
	}
	if cfg.View.Variant == string(notepad.VariantDashboard) {
		opts = append(opts, notepad.WithDashboardQuery(cfg.View.IncludeCompleted, cfg.View.MaxRecords))
	} else {
		opts = append(opts, notepad.WithParent(cfg.View.ParentID, cfg.View.ParentType))
	}
	if cfg.Links.RecordURL != "" {
		opts = append(opts, notepad.WithRecordURL(cfg.Links.RecordURL))
	}
	return opts
}

func viewTitle(cfg *Config) string {
	if cfg.View.Variant == string(notepad.VariantDashboard) {
		if cfg.User.Name != "" {
			return cfg.User.Name + "'s notes"
		}
		return "My notes"
	}
	if cfg.View.ParentType != "" {
		return fmt.Sprintf("Notes on %s %s", cfg.View.ParentType, cfg.View.ParentID)
	}
	return "Notes on " + cfg.View.ParentID
}

// RunTUI runs the terminal host until the user quits.
func RunTUI(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	if err := cfg.ValidateHost(); err != nil {
		return err
	}

	// The terminal owns stdout.
	out := app.logOutput
	if out == nil {
		out = io.Discard
		if cfg.App.LogFile != "" {
			f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			out = f
		}
	}
	logger := newLogger(out, cfg.App.LogLevel)
	slog.SetDefault(logger)

	be, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	bridge := tui.NewBridge()
	ctl := notepad.New(be.gw, append(controllerOptions(cfg, logger), notepad.WithNotifier(bridge))...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := be.follow(gCtx, bridge.RequestReload); err != nil {
			logger.Warn("live reload disabled", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()
		return tui.Run(gCtx, tui.New(gCtx, ctl, bridge, viewTitle(cfg)))
	})

	return g.Wait()
}

// RunMCP serves the configured view as MCP tools on stdin/stdout.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	if err := cfg.ValidateHost(); err != nil {
		return err
	}

	// stdout carries the protocol.
	out := app.logOutput
	if out == nil {
		out = os.Stderr
	}
	logger := newLogger(out, cfg.App.LogLevel)
	slog.SetDefault(logger)

	be, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	srv := mcpserver.New(be.gw, controllerOptions(cfg, logger)...)
	logger.Info("MCP server starting", slog.String("variant", cfg.View.Variant))
	return srv.ServeStdio()
}

// RunSeed loads a seed file into the configured backend.
func RunSeed(ctx context.Context, path string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	out := app.logOutput
	if out == nil {
		out = os.Stdout
	}
	logger := newLogger(out, cfg.App.LogLevel)
	slog.SetDefault(logger)

	f, err := seed.Load(path)
	if err != nil {
		return err
	}

	be, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	res, err := seed.Apply(ctx, be.gw, f)
	if err != nil {
		return err
	}
	logger.Info("seed applied",
		slog.String("file", path),
		slog.Int("companies", res.Companies),
		slog.Int("notes", res.Notes),
		slog.Int("reminders", res.Reminders))
	return nil
}
