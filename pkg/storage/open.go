package storage

import (
	"context"
	"fmt"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/redis"
)

// Open returns the Store selected by cfg.Driver. The redis driver needs
// redisCfg to point at a reachable server.
func Open(ctx context.Context, cfg config.LocalConfig, redisCfg config.RedisConfig, logg *logger.Logger) (Store, error) {
	if logg == nil {
		logg = logger.Nop()
	}
	ctx = logg.WithField(ctx, "local_driver", cfg.Driver)

	switch cfg.Driver {
	case config.LocalDriverSQLite, "":
		store, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logg.Debug(logg.WithField(ctx, "path", cfg.SQLitePath), "local storage opened")
		return store, nil
	case config.LocalDriverRedis:
		client, err := redis.New(ctx, redisCfg, cfg.Namespace, logg)
		if err != nil {
			return nil, fmt.Errorf("local redis storage: %w", err)
		}
		logg.Debug(ctx, "local storage opened")
		return NewRedis(client), nil
	case config.LocalDriverMemory:
		logg.Warn(ctx, "local storage is in-memory; session will not survive restart")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported local storage driver %q", cfg.Driver)
	}
}
