package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/berrythewa/mintclip/pkg/compression"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const historyBucket = "history"

// ErrClosed is returned after Close
var ErrClosed = errors.New("storage is closed")

// BoltStorage implements KV on top of a single bbolt bucket
type BoltStorage struct {
	db        *bbolt.DB
	logger    *zap.Logger
	threshold int
	size      int64
	closed    atomic.Bool
}

// StorageConfig holds configuration for BoltStorage initialization
type StorageConfig struct {
	DBPath string
	// CompressThreshold is the value size from which gzip is applied.
	// Zero means compression.DefaultThreshold.
	CompressThreshold int
	Logger            *zap.Logger
}

// NewBoltStorage opens (or creates) the database file
func NewBoltStorage(config StorageConfig) (*BoltStorage, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(config.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := bbolt.Open(config.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	var size int64
	err = db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(historyBucket)).ForEach(func(k, v []byte) error {
			size += int64(len(k) + len(v))
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to calculate storage size: %w", err)
	}

	s := &BoltStorage{
		db:        db,
		logger:    logger,
		threshold: config.CompressThreshold,
		size:      size,
	}

	logger.Debug("BoltStorage initialized",
		zap.String("db_path", config.DBPath),
		zap.Int64("current_size", size))

	return s, nil
}

// Load returns the decoded value stored under key
func (s *BoltStorage) Load(key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(historyBucket)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	data, err := compression.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: key %q: %w", ErrCorrupt, key, err)
	}
	return data, nil
}

// Save encodes value and writes it under key in one transaction
func (s *BoltStorage) Save(key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}

	encoded, err := compression.Encode(value, s.threshold)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}

	var delta int64
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(historyBucket))
		if prev := b.Get([]byte(key)); prev != nil {
			delta = int64(len(encoded) - len(prev))
		} else {
			delta = int64(len(key) + len(encoded))
		}
		return b.Put([]byte(key), encoded)
	})
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	atomic.AddInt64(&s.size, delta)

	s.logger.Debug("Saved value",
		zap.String("key", key),
		zap.Int("raw_size", len(value)),
		zap.Int("stored_size", len(encoded)),
		zap.Bool("compressed", encoded[0] == compression.CodecGzip))
	return nil
}

// Size returns the number of bytes held in the bucket, keys included
func (s *BoltStorage) Size() int64 {
	return atomic.LoadInt64(&s.size)
}

// Path returns the database file path
func (s *BoltStorage) Path() string {
	return s.db.Path()
}

// Close releases the database file lock
func (s *BoltStorage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
