package kv

import (
	"context"

	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

// New opens the backend selected by cfg.Driver.
func New(ctx context.Context, cfg Config, log logger.Logger) (Backend, error) {
	cfg = cfg.withDefaults()

	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		b, err := NewFile(cfg.File, log)
		if err != nil {
			return nil, errors.WrapFail(err, "open file backend")
		}
		return b, nil
	case DriverMongo:
		b, err := NewMongo(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, errors.WrapFail(err, "open mongo backend")
		}
		return b, nil
	case DriverSQLite:
		b, err := NewSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, errors.WrapFail(err, "open sqlite backend")
		}
		return b, nil
	case DriverDynamo:
		b, err := NewDynamo(ctx, cfg.Dynamo)
		if err != nil {
			return nil, errors.WrapFail(err, "open dynamodb backend")
		}
		return b, nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
