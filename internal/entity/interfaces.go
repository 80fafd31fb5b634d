package entity

import "github.com/nikmy/klaro/internal/kv"

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces_test.go -package=entity

type backend interface {
	kv.Backend
}
