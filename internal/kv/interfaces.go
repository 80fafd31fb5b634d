// Package kv holds the durable key-value backends the entity store is built on.
//
// A backend only knows how to get, put and delete a value by key. It has no
// enumeration: listing is the entity layer's job, done through index records.
// Every driver serializes operations on a single key; nothing spans keys.
package kv

import (
	"context"

	"github.com/nikmy/klaro/pkg/errors"
)

// ErrNoKey is returned by Get when nothing is stored under the key.
var ErrNoKey = errors.New("kv: no such key")

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Has(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) (existed bool, err error)

	Close(ctx context.Context) error
}

// Runner is implemented by backends that need a background loop,
// e.g. the file backend flushing its snapshot.
type Runner interface {
	Run(ctx context.Context) error
}
