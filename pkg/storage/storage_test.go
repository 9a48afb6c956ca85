package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wishlistDoc struct {
	IDs []string `json:"ids"`
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "user")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":"u1"}`)))
	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":"u2"}`)))
	raw, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u2"}`, string(raw))

	require.NoError(t, SetJSON(ctx, store, "wishlist_u2", wishlistDoc{IDs: []string{"p1", "p2"}}))
	var doc wishlistDoc
	require.NoError(t, GetJSON(ctx, store, "wishlist_u2", &doc))
	assert.Equal(t, []string{"p1", "p2"}, doc.IDs)

	require.NoError(t, store.Delete(ctx, "user"))
	_, err = store.Get(ctx, "user")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Delete(ctx, "never-written"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":"u1"}`)))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	raw, err := reopened.Get(ctx, "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(raw))
}

func TestRedisStore(t *testing.T) {
	fake := &fakeRedis{data: map[string]string{}}
	exerciseStore(t, &Redis{client: fake})
	_, written := fake.data["bagzo:local:wishlist_u2"]
	assert.True(t, written, "expected namespaced key, got %v", fake.data)
}

func TestGetJSONCorrupt(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, "wishlist_u1", []byte("{not json")))

	var doc wishlistDoc
	err := GetJSON(ctx, store, "wishlist_u1", &doc)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, config.LocalConfig{Driver: config.LocalDriverMemory}, config.RedisConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	store, err = Open(ctx, config.LocalConfig{
		Driver:     config.LocalDriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "bagzo.db"),
	}, config.RedisConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, config.LocalConfig{Driver: config.LocalDriverRedis}, config.RedisConfig{}, nil)
	assert.Error(t, err)

	_, err = Open(ctx, config.LocalConfig{Driver: "etcd"}, config.RedisConfig{}, nil)
	assert.Error(t, err)
}

type fakeRedis struct {
	data map[string]string
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeRedis) LocalKey(key string) string { return "bagzo:local:" + key }

func (f *fakeRedis) Close() error { return nil }
