package pos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour, nil)

	sess := store.Create()
	require.NotEmpty(t, sess.ID)
	require.NotNil(t, sess.Catalog)
	require.NotNil(t, sess.Queue)

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	require.Same(t, sess, got)

	_, ok = store.Get("missing")
	require.False(t, ok)
}

func TestStoreEvictsIdleSessions(t *testing.T) {
	store := NewStore(time.Minute, nil)
	idle := store.Create()
	active := store.Create()

	idle.mu.Lock()
	idle.lastSeen = time.Now().Add(-2 * time.Minute)
	idle.mu.Unlock()

	store.evictExpired(time.Now())

	_, ok := store.Get(idle.ID)
	require.False(t, ok)
	_, ok = store.Get(active.ID)
	require.True(t, ok)
	require.Equal(t, 1, store.Len())
}
