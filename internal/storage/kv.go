package storage

import "errors"

// ErrNotFound is returned by Load when no value is stored under the key
var ErrNotFound = errors.New("key not found")

// ErrCorrupt is returned by Load when the stored bytes cannot be decoded
var ErrCorrupt = errors.New("stored value is corrupt")

// KV is the persistence handle the history store writes through.
// Save must be durable when it returns nil.
type KV interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
	Close() error
}
