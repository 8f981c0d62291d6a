package storage

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps images in process memory and serves them under
// <baseURL>/media/<key>. Used for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]*Image
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{baseURL: strings.TrimRight(baseURL, "/"), objects: make(map[string]*Image)}
}

func (m *MemoryStore) Save(_ context.Context, prefix, dataURI string) (string, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	key := objectKey(prefix, img)
	m.mu.Lock()
	m.objects[key] = img
	m.mu.Unlock()
	return m.baseURL + "/media/" + key, nil
}

// Get returns the image stored under key.
func (m *MemoryStore) Get(key string) (*Image, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.objects[strings.TrimPrefix(key, "/")]
	return img, ok
}

// Len reports how many images are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
