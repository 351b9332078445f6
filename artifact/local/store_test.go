package local

import (
	"context"
	"testing"

	"github.com/doctrail/doctrail/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	content := []byte("col_a,col_b\n1,2\n")
	key, err := store.Put(context.Background(), "alice", "report.csv", content)
	require.NoError(t, err)
	assert.Contains(t, key, "uploads/alice/")
	assert.Contains(t, key, "report.csv")

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestKeysNeverCollide(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	keys := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		key, err := store.Put(context.Background(), "alice", "same.csv", []byte("data"))
		require.NoError(t, err)
		_, seen := keys[key]
		assert.False(t, seen, "key %s issued twice", key)
		keys[key] = struct{}{}
	}
}

func TestGetMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "uploads/nobody/0-x/gone.csv")
	assert.ErrorIs(t, err, artifact.ErrObjectNotFound)
}
