package notes

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileStoreAppendAndRead(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, Note{AgentID: "alpha", HandID: "h1", Text: "bravo overfolds to river bets", CreatedAt: when}))
	require.NoError(t, store.Append(ctx, Note{AgentID: "alpha", HandID: "h2", Text: "bravo called down light, adjust", CreatedAt: when.Add(time.Minute)}))

	ns, err := store.Read(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, ns, 2)
	require.Equal(t, "h1", ns[0].HandID)
	require.Equal(t, "h2", ns[1].HandID)
	require.True(t, when.Equal(ns[0].CreatedAt))
}

func TestFileStoreIsolatesAgents(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, Note{AgentID: "alpha", Text: "private read on bravo"}))

	ns, err := store.Read(ctx, "bravo")
	require.NoError(t, err)
	require.Empty(t, ns, "an agent never sees another agent's notes")
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, Note{AgentID: "alpha", Text: "first"}))
	require.NoError(t, store.Append(ctx, Note{AgentID: "alpha", Text: "second"}))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	ns, err := reopened.Read(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, ns, 2)
	require.Equal(t, "first", ns[0].Text)
	require.Equal(t, "second", ns[1].Text)
}

func TestFileStoreConcurrentAppends(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		agent := fmt.Sprintf("agent-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = store.Append(ctx, Note{AgentID: agent, Text: fmt.Sprintf("note %d", j)})
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		ns, err := store.Read(ctx, fmt.Sprintf("agent-%d", i))
		require.NoError(t, err)
		require.Len(t, ns, 10)
	}
}

func TestFileStoreSanitizesAgentIDs(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, Note{AgentID: "gpt-4o/deluxe edition", Text: "x"}))

	ns, err := store.Read(ctx, "gpt-4o/deluxe edition")
	require.NoError(t, err)
	require.Len(t, ns, 1)
}

func TestFileStoreRejectsEmptyAgentID(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.Error(t, store.Append(context.Background(), Note{Text: "nobody's note"}))
}
