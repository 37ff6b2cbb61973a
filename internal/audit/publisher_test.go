package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_StampsTimestamp(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store)

	before := time.Now()
	err := pub.Emit(context.Background(), Event{
		RequestID: "req-1",
		Operation: "consultar",
	})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.False(t, events[0].Timestamp.Before(before))
}

func TestPublisher_PreservesExplicitTimestamp(t *testing.T) {
	store := NewMemoryStore()
	pub := NewPublisher(store)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := pub.Emit(context.Background(), Event{Timestamp: at, Operation: "consultar"})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, at, events[0].Timestamp)
}

func TestMemoryStore_EventsReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Append(context.Background(), Event{Operation: "consultar"}))

	events := store.Events()
	events[0].Operation = "mutated"

	assert.Equal(t, "consultar", store.Events()[0].Operation)
}
