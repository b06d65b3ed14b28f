package itinerary

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// SessionStore keeps the most recently generated itinerary per session so the
// client can re-fetch it without regenerating. Entries expire after the
// configured TTL.
type SessionStore struct {
	c *cache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionStore{c: cache.New(ttl, 10*time.Minute)}
}

func (s *SessionStore) Set(sessionID string, itinerary *types.TripItinerary) {
	s.c.Set(sessionID, itinerary, cache.DefaultExpiration)
}

func (s *SessionStore) Get(sessionID string) (*types.TripItinerary, bool) {
	v, found := s.c.Get(sessionID)
	if !found {
		return nil, false
	}
	return v.(*types.TripItinerary), true
}
