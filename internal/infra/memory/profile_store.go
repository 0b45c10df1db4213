package memory

import (
	"context"
	"sync"

	"nusantara-culture-service/internal/domain"
)

// ProfileStore is a static user profile lookup.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

func NewProfileStore(profiles ...domain.Profile) *ProfileStore {
	s := &ProfileStore{profiles: make(map[string]domain.Profile)}
	for _, p := range profiles {
		s.profiles[p.UserID] = p
	}
	return s
}

func (s *ProfileStore) Put(profile domain.Profile) {
	s.mu.Lock()
	s.profiles[profile.UserID] = profile
	s.mu.Unlock()
}

func (s *ProfileStore) GetProfiles(_ context.Context, userIDs []string) (map[string]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Profile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
