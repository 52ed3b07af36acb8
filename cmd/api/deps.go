package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"call-history/internal/auth"
	"call-history/internal/config"
	"call-history/internal/source"
	"call-history/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

// deps holds the process-wide collaborators built from config.
type deps struct {
	db    *sql.DB
	rdb   *redis.Client
	query *source.Query
}

func openDeps(ctx context.Context, cfg config.Config, log *slog.Logger) (*deps, error) {
	d := &deps{}

	src, err := d.openSource(ctx, cfg)
	if err != nil {
		d.Close()
		return nil, err
	}

	opts := source.QueryOptions{
		Logger:       log.With("component", "calls_query"),
		TTL:          cfg.Cache.TTL,
		FetchTimeout: cfg.Upstream.Timeout,
		Wait:         cfg.Cache.RenderWait,
	}
	if cfg.RedisEnabled() {
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr(), PoolSize: cfg.Redis.PoolSize})
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		d.rdb = rdb
		opts.Cache = source.NewRedisCache(rdb, "")
		if cfg.Upstream.MaxInFlight > 0 {
			opts.Limiter = source.NewRedisLimiter(rdb, cfg.Upstream.MaxInFlight, 2*cfg.Upstream.Timeout)
		}
	}

	d.query = source.NewQuery(src, opts)
	return d, nil
}

func (d *deps) openSource(ctx context.Context, cfg config.Config) (source.Source, error) {
	switch cfg.Source.Kind {
	case config.SourcePostgres:
		db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{MaxOpenConns: cfg.DB.MaxConns})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		d.db = db
		return source.NewPostgres(db), nil
	default:
		tokens, err := auth.NewTokenSource(cfg.Upstream)
		if err != nil {
			return nil, fmt.Errorf("upstream tokens: %w", err)
		}
		return source.NewGraphQL(cfg.Upstream.URL, tokens, cfg.Upstream.Timeout), nil
	}
}

func (d *deps) Close() {
	if d.rdb != nil {
		_ = d.rdb.Close()
	}
	if d.db != nil {
		_ = d.db.Close()
	}
}
