package kv

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
	"github.com/nikmy/klaro/pkg/mongotools"
)

type mongoDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo stores each key as one document of a single collection.
type Mongo struct {
	coll *mongo.Collection
	log  logger.Logger
}

func NewMongo(ctx context.Context, cfg MongoConfig, log logger.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URL).
		SetTimeout(cfg.Timeout)

	if cfg.Auth.Username != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
		})
	}
	if cfg.Pool.MinSize > 0 {
		opts.SetMinPoolSize(cfg.Pool.MinSize)
	}
	if cfg.Pool.MaxSize > 0 {
		opts.SetMaxPoolSize(cfg.Pool.MaxSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.WrapFail(err, "connect to mongo db")
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.WrapFail(err, "ping mongo db")
	}

	m := &Mongo{
		coll: client.Database(cfg.Database).Collection(cfg.Collection),
		log:  log.With("kv_mongo"),
	}
	m.log.Infof("using collection %s.%s", cfg.Database, cfg.Collection)

	return m, nil
}

func (m *Mongo) Get(ctx context.Context, key string) ([]byte, error) {
	doc, found, err := mongotools.FindOne[mongoDocument](ctx, m.coll, mongotools.FilterByID(key))
	if err != nil {
		return nil, errors.WrapFailf(err, "get %q", key)
	}
	if !found {
		return nil, ErrNoKey
	}
	return doc.Value, nil
}

func (m *Mongo) Has(ctx context.Context, key string) (bool, error) {
	n, err := m.coll.CountDocuments(ctx, mongotools.FilterByID(key), options.Count().SetLimit(1))
	if err != nil {
		return false, errors.WrapFailf(err, "count %q", key)
	}
	return n > 0, nil
}

func (m *Mongo) Put(ctx context.Context, key string, value []byte) error {
	doc := mongoDocument{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := m.coll.ReplaceOne(ctx, mongotools.FilterByID(key), doc, options.Replace().SetUpsert(true))
	return errors.WrapFailf(err, "upsert %q", key)
}

func (m *Mongo) Delete(ctx context.Context, key string) (bool, error) {
	result, err := m.coll.DeleteOne(ctx, mongotools.FilterByID(key))
	if err != nil {
		return false, errors.WrapFailf(err, "delete %q", key)
	}
	return result.DeletedCount == 1, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	err := m.coll.Database().Client().Disconnect(ctx)
	return errors.WrapFail(err, "close mongo db connection")
}
