package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDirStorage_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	sink := NewLocalDirStorage(dir, nil)

	location, err := sink.Put(context.Background(), "orders.csv", "text/csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(location))
	assert.Equal(t, "orders.csv", filepath.Base(location))

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestLocalDirStorage_Put_Overwrites(t *testing.T) {
	sink := NewLocalDirStorage(t.TempDir(), nil)

	_, err := sink.Put(context.Background(), "orders.csv", "text/csv", []byte("first"))
	require.NoError(t, err)
	location, err := sink.Put(context.Background(), "orders.csv", "text/csv", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalDirStorage_Put_RejectsPaths(t *testing.T) {
	sink := NewLocalDirStorage(t.TempDir(), nil)

	for _, name := range []string{"", "../orders.csv", "sub/orders.csv"} {
		_, err := sink.Put(context.Background(), name, "text/csv", []byte("x"))
		assert.ErrorIs(t, err, ErrKeyRequired, name)
	}
}

func TestLocalDirStorage_Put_CanceledContext(t *testing.T) {
	sink := NewLocalDirStorage(t.TempDir(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sink.Put(ctx, "orders.csv", "text/csv", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalDirStorage_Defaults(t *testing.T) {
	sink := NewLocalDirStorage("", nil)
	assert.Equal(t, ".", sink.Dir())
}
