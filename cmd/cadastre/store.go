package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/jmdejong/cadastrs/internal/archive"
	"github.com/jmdejong/cadastrs/internal/cadastre"
	"github.com/jmdejong/cadastrs/internal/config"
	"github.com/jmdejong/cadastrs/internal/errs"
	"github.com/jmdejong/cadastrs/internal/migrate"
	"github.com/jmdejong/cadastrs/internal/pos"
	"github.com/jmdejong/cadastrs/internal/repository"
	"github.com/jmdejong/cadastrs/internal/repository/file"
	"github.com/jmdejong/cadastrs/internal/repository/postgres"
	"github.com/jmdejong/cadastrs/internal/repository/sqlite"
	"github.com/jmdejong/cadastrs/internal/service"
)

// connectAttempts bounds how long a postgres store waits for its server.
const connectAttempts = 5

// openStore returns the configured snapshot store and a func releasing it.
func (a *app) openStore(ctx context.Context) (repository.TownRepository, func(), error) {
	switch a.cfg.Store.Driver {
	case config.StoreFile:
		s, err := file.New(a.cfg.TownJSON, a.cfg.TownJSONOld)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil

	case config.StoreSQLite:
		s, err := sqlite.Open(a.cfg.Store.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, func() {
			if err := s.Close(); err != nil {
				a.log.Warn("closing sqlite store", zap.Error(err))
			}
		}, nil

	case config.StorePostgres:
		db, err := a.connectPostgres(ctx)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewTownRepo(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", errs.ErrUnknownStore, a.cfg.Store.Driver)
}

// connectPostgres waits for the server to answer, then applies migrations
// when enabled.
func (a *app) connectPostgres(ctx context.Context) (*postgres.DB, error) {
	dsn := a.cfg.Store.DSN
	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(500*time.Millisecond))

	var db *postgres.DB
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		d, err := postgres.New(ctx, dsn)
		if err != nil {
			return err
		}
		if err := d.Ping(ctx); err != nil {
			d.Close()
			a.log.Warn("postgres not ready", zap.Error(err))
			return retry.RetryableError(err)
		}
		db = d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if a.cfg.Store.Migrate {
		if err := migrate.Up(ctx, dsn, a.log); err != nil {
			db.Close()
			return nil, err
		}
		if v, err := migrate.Version(ctx, dsn, a.log); err == nil {
			a.log.Debug("schema ready", zap.Int64("version", v))
		}
	}
	return db, nil
}

func (a *app) townService(repo repository.TownRepository) *service.TownServiceImpl {
	out := service.Outputs{
		Text: a.cfg.TxtRender,
		HTML: a.cfg.HTMLRender,
		Viewport: cadastre.Viewport{
			Origin: pos.New(a.cfg.Render.OriginX, a.cfg.Render.OriginY),
			Width:  a.cfg.Render.Width,
			Height: a.cfg.Render.Height,
		},
	}
	var opts []service.Option
	if a.cfg.Archive.Dir != "" {
		opts = append(opts, service.WithArchive(archive.Writer{Dir: a.cfg.Archive.Dir, Keep: a.cfg.Archive.Keep}))
	}
	return service.NewTownService(repo, out, a.log.Named("town"), opts...)
}
