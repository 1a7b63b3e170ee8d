package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreReplace(t *testing.T) {
	store := NewStore(nil, nil)
	before := store.Current()

	var notified atomic.Pointer[Configuration]
	cancel := store.Subscribe(func(cfg *Configuration) {
		notified.Store(cfg)
	})
	defer cancel()

	next := Default()
	next.TagStyle = TagStyleQt
	require.NoError(t, store.Replace(next))

	after := store.Current()
	assert.Equal(t, TagStyleQt, after.TagStyle)
	assert.Equal(t, TagStyleJavaDoc, before.TagStyle, "old snapshot must stay valid")
	assert.Same(t, after, notified.Load())

	next.TagIndentation = 12
	assert.Equal(t, 4, store.Current().TagIndentation, "store keeps its own copy")
}

func TestStoreReplaceRejectsInvalid(t *testing.T) {
	store := NewStore(Default(), zap.NewNop())

	calls := 0
	store.Subscribe(func(*Configuration) { calls++ })

	bad := Default()
	bad.TagIndentation = -1
	err := store.Replace(bad)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNegativeIndentation))
	assert.Equal(t, 4, store.Current().TagIndentation)
	assert.Zero(t, calls)
}

func TestStoreUnsubscribe(t *testing.T) {
	store := NewStore(nil, nil)

	calls := 0
	cancel := store.Subscribe(func(*Configuration) { calls++ })
	require.NoError(t, store.Replace(Default()))
	cancel()
	require.NoError(t, store.Replace(Default()))

	assert.Equal(t, 1, calls)
}

func TestStoreWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("tag_indentation: 4\n"), 0644))

	initial, err := LoadFile(path)
	require.NoError(t, err)

	store := NewStore(initial, nil)
	require.NoError(t, store.Watch(path))

	require.NoError(t, os.WriteFile(path, []byte("tag_indentation: 7\n"), 0644))

	assert.Eventually(t, func() bool {
		return store.Current().TagIndentation == 7
	}, 5*time.Second, 20*time.Millisecond)
}
