package filestore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casetrail/casetrail/internal/config"
)

func localStoreFor(t *testing.T, dir string) Store {
	t.Helper()
	store, err := New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": dir},
	})
	require.NoError(t, err)
	return store
}

func TestLocalStoreRoundtrip(t *testing.T) {
	store := localStoreFor(t, t.TempDir())

	data := []byte("case file body")
	pointer, err := store.Put(context.Background(), data)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(pointer, "cas://"))

	got, err := store.Open(context.Background(), pointer)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestLocalStorePointerIsContentAddressed(t *testing.T) {
	store := localStoreFor(t, t.TempDir())

	p1, err := store.Put(context.Background(), []byte("same bytes"))
	require.NoError(t, err)
	p2, err := store.Put(context.Background(), []byte("same bytes"))
	require.NoError(t, err)
	require.Equal(t, p1, p2)

	p3, err := store.Put(context.Background(), []byte("different bytes"))
	require.NoError(t, err)
	require.NotEqual(t, p1, p3)
}

func TestLocalStoreOpenBadPointer(t *testing.T) {
	store := localStoreFor(t, t.TempDir())

	_, err := store.Open(context.Background(), "not-a-pointer")
	require.Error(t, err)

	_, err = store.Open(context.Background(), "cas://../escape")
	require.Error(t, err)
}

func TestLocalStoreRequiresDir(t *testing.T) {
	_, err := New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{},
	})
	require.Error(t, err)
}

func TestPointerFor(t *testing.T) {
	key, pointer := PointerFor([]byte("abc"))
	require.Len(t, key, 64)
	require.Equal(t, "cas://"+key, pointer)
}
