// Package app wires the configured backend, the entity stores and the HTTP
// routes into one service shared by the server and Lambda entrypoints.
package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nikmy/klaro/internal/api"
	"github.com/nikmy/klaro/internal/bills"
	"github.com/nikmy/klaro/internal/kv"
	"github.com/nikmy/klaro/internal/shopping"
	"github.com/nikmy/klaro/pkg/clock"
	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

type App struct {
	Server api.Server

	lists   shopping.API
	bills   bills.API
	backend kv.Backend

	seedMode api.SeedMode
	log      logger.Logger
}

func New(ctx context.Context, cfg *Config, log logger.Logger) (*App, error) {
	backend, err := kv.New(ctx, cfg.Storage, log)
	if err != nil {
		return nil, errors.WrapFail(err, "init storage")
	}

	a, err := newWithBackend(cfg, backend, log)
	if err != nil {
		_ = backend.Close(ctx)
		return nil, err
	}
	return a, nil
}

func newWithBackend(cfg *Config, backend kv.Backend, log logger.Logger) (*App, error) {
	lists, err := shopping.New(backend, log)
	if err != nil {
		return nil, err
	}

	billsAPI, err := bills.New(backend, clock.New(cfg.Clock.UTCDiff), log)
	if err != nil {
		return nil, err
	}

	return &App{
		Server:   api.NewServer(cfg.HTTP, log, lists, billsAPI),
		lists:    lists,
		bills:    billsAPI,
		backend:  backend,
		seedMode: cfg.HTTP.SeedMode,
		log:      log.With("app"),
	}, nil
}

// Seed fills empty stores with demo data unless seeding is left to requests.
func (a *App) Seed(ctx context.Context) error {
	if a.seedMode != api.SeedOnStartup {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		seeded, err := a.lists.Seed(gctx)
		if seeded {
			a.log.Infof("seeded shopping lists")
		}
		return errors.WrapFail(err, "seed shopping lists")
	})
	g.Go(func() error {
		seeded, err := a.bills.Seed(gctx)
		if seeded {
			a.log.Infof("seeded bills")
		}
		return errors.WrapFail(err, "seed bills")
	})
	return g.Wait()
}

// Run serves HTTP and runs the backend's background loop until ctx is done
// or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Server.Serve(gctx)
	})

	if runner, ok := a.backend.(kv.Runner); ok {
		g.Go(func() error {
			return errors.WrapFail(runner.Run(gctx), "run storage")
		})
	}

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	err := a.Server.Shutdown(ctx)
	if err != nil {
		errs = append(errs, err)
	}

	err = a.backend.Close(ctx)
	if err != nil {
		errs = append(errs, errors.WrapFail(err, "close storage"))
	}

	return errors.Join(errs...)
}
