package server

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerhall/holdem/internal/game"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewRegistry(NewMemoryStore(), game.DefaultRules(), logger, nil)
}

func TestRegistryCreateAssignsID(t *testing.T) {
	registry := newTestRegistry(t)

	session := registry.Create("")
	assert.NotEmpty(t, session.ID())
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryCreateIsIdempotent(t *testing.T) {
	registry := newTestRegistry(t)

	first := registry.Create("table-1")
	second := registry.Create("table-1")

	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryWithUnknownSession(t *testing.T) {
	registry := newTestRegistry(t)

	err := registry.With("nope", func(*game.Session) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryDestroy(t *testing.T) {
	registry := newTestRegistry(t)
	registry.Create("table-1")

	assert.True(t, registry.Destroy("table-1"))
	assert.False(t, registry.Destroy("table-1"))
	assert.Equal(t, 0, registry.Len())

	_, err := registry.Snapshot("table-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistrySnapshotsCoverAllTables(t *testing.T) {
	registry := newTestRegistry(t)
	registry.Create("a")
	registry.Create("b")

	snaps := registry.Snapshots()
	require.Len(t, snaps, 2)

	ids := []string{snaps[0].SessionID, snaps[1].SessionID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestRegistryWithSerializesCommands(t *testing.T) {
	registry := newTestRegistry(t)
	registry.Create("table-1")

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := registry.With("table-1", func(session *game.Session) error {
				_, err := session.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("player-%d", i), 100)
				return err
			})
			// Seats beyond the table cap are rejected, never raced.
			if err != nil {
				assert.ErrorIs(t, err, game.ErrSessionFull)
			}
		}(i)
	}
	wg.Wait()

	snap, err := registry.Snapshot("table-1")
	require.NoError(t, err)
	assert.Len(t, snap.Seats, game.DefaultRules().MaxPlayers)
}

func TestRegistrySessionsGetDistinctSeeds(t *testing.T) {
	registry := newTestRegistry(t)

	a := registry.Create("")
	b := registry.Create("")
	assert.NotEqual(t, a.ID(), b.ID())
}
