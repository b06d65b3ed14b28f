package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(time.Minute)

	itin := &types.TripItinerary{Destinations: []string{"Bangkok, Thailand"}}
	store.Set("session-1", itin)

	got, found := store.Get("session-1")
	require.True(t, found)
	assert.Equal(t, itin, got)

	_, found = store.Get("session-2")
	assert.False(t, found)
}

func TestSessionStore_Overwrite(t *testing.T) {
	store := NewSessionStore(time.Minute)

	store.Set("session-1", &types.TripItinerary{Destinations: []string{"Bangkok, Thailand"}})
	store.Set("session-1", &types.TripItinerary{Destinations: []string{"Phuket, Thailand"}})

	got, found := store.Get("session-1")
	require.True(t, found)
	assert.Equal(t, []string{"Phuket, Thailand"}, got.Destinations)
}
