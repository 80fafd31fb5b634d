package entity

import "strings"

// Record is a storable value with a string identity.
// WithID returns a copy of the record carrying id.
type Record[T any] interface {
	GetID() string
	WithID(id string) T
}

// Kind describes one entity kind: its key namespace, its index and its defaults.
type Kind[T Record[T]] struct {
	// Name prefixes record keys: "<Name>:<id>".
	Name string

	// IndexName is the key of the index record listing live ids.
	IndexName string

	// Initial holds the defaults a decoded record starts from,
	// so fields missing in storage get these values.
	Initial T

	// Seed returns demo records written into an empty store. Optional.
	Seed func() []T

	// Validate checks the shape of a record before every write. Optional.
	Validate func(T) error
}

func (k Kind[T]) recordKey(id string) string {
	return k.Name + ":" + id
}

func (k Kind[T]) check() error {
	switch {
	case k.Name == "":
		return Invalidf("entity kind has no name")
	case strings.Contains(k.Name, ":"):
		return Invalidf("entity kind name %q contains ':'", k.Name)
	case k.IndexName == "":
		return Invalidf("entity kind %s has no index name", k.Name)
	case strings.HasPrefix(k.IndexName, k.Name+":"):
		return Invalidf("index name %q collides with %s record keys", k.IndexName, k.Name)
	}
	return nil
}
