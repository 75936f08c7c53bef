package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDel(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	_, err := st.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Set(ctx, "k", "v", 0))
	v, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, st.Del(ctx, "k"))
	_, err = st.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTTLExpiry(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := st.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryIncrCountsWithinWindow(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := st.Incr(ctx, "attempts", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}
}

func TestMemoryPubSub(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	events, cancel := st.Subscribe(ctx, "cart:session-a")
	defer cancel()

	require.NoError(t, st.Publish(ctx, "cart:session-a", "updated"))
	assert.Equal(t, "updated", <-events)

	// Autre canal : rien ne fuit
	require.NoError(t, st.Publish(ctx, "cart:session-b", "updated"))
	select {
	case msg := <-events:
		t.Fatalf("message inattendu: %q", msg)
	default:
	}
}
