package memory

import (
	"context"
	"sync"
	"time"

	"nusantara-culture-service/internal/domain"
)

// ResourceStore keeps provinces and their resources in memory.
type ResourceStore struct {
	mu        sync.RWMutex
	provinces map[string]domain.Province
	resources map[string]domain.Resource
}

func NewResourceStore(provinces ...domain.Province) *ResourceStore {
	s := &ResourceStore{
		provinces: make(map[string]domain.Province),
		resources: make(map[string]domain.Resource),
	}
	for _, p := range provinces {
		s.provinces[p.Slug] = p
	}
	return s
}

func (s *ResourceStore) GetProvince(_ context.Context, slug string) (domain.Province, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.provinces[slug]
	if !ok {
		return domain.Province{}, domain.ErrProvinceNotFound
	}
	return p, nil
}

func (s *ResourceStore) CreateResource(_ context.Context, resource domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.provinces[resource.ProvinceSlug]; !ok {
		return domain.ErrProvinceNotFound
	}
	s.resources[resource.ID] = cloneResource(resource)
	return nil
}

func (s *ResourceStore) GetResource(_ context.Context, id string) (domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[id]
	if !ok {
		return domain.Resource{}, domain.ErrResourceNotFound
	}
	return cloneResource(r), nil
}

func (s *ResourceStore) SetAsset(_ context.Context, id string, slot domain.Slot, ref domain.AssetReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return domain.ErrResourceNotFound
	}
	r = cloneResource(r)
	r.Assets[slot] = ref
	r.UpdatedAt = time.Now().UTC()
	s.resources[id] = r
	return nil
}

func cloneResource(r domain.Resource) domain.Resource {
	out := r
	out.Assets = make(map[domain.Slot]domain.AssetReference, len(r.Assets))
	for k, v := range r.Assets {
		out.Assets[k] = v
	}
	if r.Fields != nil {
		out.Fields = make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	return out
}
