package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esvchat/bible-chat/backend/internal/model/chat"
)

func TestMemoryStoreAppendKeepsOrder(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", chat.UserTurn("Who was Moses?"), chat.ModelTurn("A prophet.")))
	require.NoError(t, store.Append(ctx, "s1", chat.UserTurn("And Aaron?"), chat.ModelTurn("His brother.")))

	turns, err := store.Transcript(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []chat.Turn{
		chat.UserTurn("Who was Moses?"),
		chat.ModelTurn("A prophet."),
		chat.UserTurn("And Aaron?"),
		chat.ModelTurn("His brother."),
	}, turns)
}

func TestMemoryStoreUnknownSessionIsEmpty(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	turns, err := store.Transcript(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "a", chat.UserTurn("from a")))
	require.NoError(t, store.Append(ctx, "b", chat.UserTurn("from b")))

	turns, err := store.Transcript(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []chat.Turn{chat.UserTurn("from a")}, turns)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", chat.UserTurn("hi")))
	require.NoError(t, store.Clear(ctx, "s1"))
	require.NoError(t, store.Clear(ctx, "never-seen"))

	turns, err := store.Transcript(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "s1", chat.UserTurn("original")))

	turns, err := store.Transcript(ctx, "s1")
	require.NoError(t, err)
	turns[0].Text = "mutated"

	again, err := store.Transcript(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Text)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", chat.UserTurn("hi")))

	now = now.Add(30 * time.Second)
	turns, err := store.Transcript(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, turns, 1)

	now = now.Add(time.Minute)
	turns, err = store.Transcript(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.Equal(t, 0, store.Len())

	require.NoError(t, store.Append(ctx, "s1", chat.UserTurn("fresh")))
	turns, err = store.Transcript(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []chat.Turn{chat.UserTurn("fresh")}, turns)
}

func TestMemoryStoreReleasesAbandonedSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.Append(ctx, fmt.Sprintf("abandoned-%d", i), chat.UserTurn("hi")))
	}
	assert.Equal(t, 1000, store.Len())

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Append(ctx, "newcomer", chat.UserTurn("hello")))
	assert.Equal(t, 1, store.Len())

	turns, err := store.Transcript(ctx, "newcomer")
	require.NoError(t, err)
	assert.Equal(t, []chat.Turn{chat.UserTurn("hello")}, turns)
}

func TestMemoryStoreSweepKeepsLiveSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "old", chat.UserTurn("hi")))
	now = now.Add(50 * time.Second)
	require.NoError(t, store.Append(ctx, "recent", chat.UserTurn("hi")))

	now = now.Add(20 * time.Second)
	require.NoError(t, store.Append(ctx, "another", chat.UserTurn("hi")))
	assert.Equal(t, 2, store.Len())

	turns, err := store.Transcript(ctx, "recent")
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestMemoryStoreRequiresSessionID(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	_, err := store.Transcript(ctx, "")
	assert.ErrorIs(t, err, ErrSessionRequired)
	assert.ErrorIs(t, store.Append(ctx, "", chat.UserTurn("x")), ErrSessionRequired)
	assert.ErrorIs(t, store.Clear(ctx, ""), ErrSessionRequired)
}
