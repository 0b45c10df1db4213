package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"nusantara-culture-service/internal/domain"
)

// BlobStore is an in-memory object store; URLs are baseURL + "/" + path.
type BlobStore struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]blob
}

type blob struct {
	data        []byte
	contentType string
}

func NewBlobStore(baseURL string) *BlobStore {
	if baseURL == "" {
		baseURL = "memory://blobs"
	}
	return &BlobStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]blob),
	}
}

func (s *BlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[path] = blob{data: append([]byte(nil), data...), contentType: contentType}
	s.mu.Unlock()
	return s.PublicURL(path), nil
}

func (s *BlobStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		return domain.ErrObjectNotFound
	}
	delete(s.objects, path)
	return nil
}

func (s *BlobStore) PublicURL(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Fetch resolves a public URL back to the stored bytes.
func (s *BlobStore) Fetch(url string) ([]byte, string, error) {
	path, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil, "", fmt.Errorf("url %q is not served by this store", url)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[path]
	if !ok {
		return nil, "", domain.ErrObjectNotFound
	}
	return append([]byte(nil), b.data...), b.contentType, nil
}

// Len reports how many objects are stored.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
