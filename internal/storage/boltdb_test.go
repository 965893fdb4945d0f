package storage

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T, threshold int) *BoltStorage {
	t.Helper()
	s, err := NewBoltStorage(StorageConfig{
		DBPath:            filepath.Join(t.TempDir(), "data", "history.db"),
		CompressThreshold: threshold,
		Logger:            zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltStorage(t *testing.T) {
	s := newTestStorage(t, 0)

	t.Run("MissingKey", func(t *testing.T) {
		_, err := s.Load("clipboardHistory")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		require.NoError(t, s.Save("clipboardHistory", []byte(`[{"id":1}]`)))

		got, err := s.Load("clipboardHistory")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":1}]`, string(got))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Save("clipboardHistory", []byte(`[]`)))

		got, err := s.Load("clipboardHistory")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
		assert.Equal(t, int64(len("clipboardHistory")+len(`[]`)+1), s.Size())
	})
}

func TestLargeValuesAreStoredCompressed(t *testing.T) {
	s := newTestStorage(t, 64)
	value := bytes.Repeat([]byte("abcdefgh"), 512)

	require.NoError(t, s.Save("clipboardHistory", value))
	assert.Less(t, s.Size(), int64(len(value)))

	got, err := s.Load("clipboardHistory")
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := NewBoltStorage(StorageConfig{DBPath: path})
	require.NoError(t, err)
	require.NoError(t, s.Save("k", []byte("v")))
	require.NoError(t, s.Close())

	_, err = s.Load("k")
	assert.ErrorIs(t, err, ErrClosed)

	s, err = NewBoltStorage(StorageConfig{DBPath: path})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
	assert.Equal(t, int64(3), s.Size())
}

func TestCorruptValueFailsToLoad(t *testing.T) {
	s := newTestStorage(t, 0)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(historyBucket)).Put([]byte("k"), []byte{9, 9})
	})
	require.NoError(t, err)

	_, err = s.Load("k")
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrNotFound)
}
