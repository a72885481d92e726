package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

// MemoryStore is an in-process BlobStore for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	uploads int
}

type memoryObject struct {
	data        []byte
	contentType string
	visibility  Visibility
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) Upload(ctx context.Context, name string, body io.Reader, size int64, contentType string, visibility Visibility) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = memoryObject{data: data, contentType: contentType, visibility: visibility}
	m.uploads++

	if visibility == Public {
		return m.PublicURL(name), nil
	}
	return name, nil
}

func (m *MemoryStore) Download(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[name]
	if !ok {
		return nil, fmt.Errorf("download %s: %w", name, ErrObjectNotFound)
	}
	return append([]byte(nil), obj.data...), nil
}

func (m *MemoryStore) SignedURL(ctx context.Context, name string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultSignedURLExpiry
	}
	return fmt.Sprintf("memory://signed/%s?expires=%d", url.PathEscape(name), int64(expiry.Seconds())), nil
}

func (m *MemoryStore) PublicURL(name string) string {
	return "memory://public/" + url.PathEscape(name)
}

// Put seeds an object directly.
func (m *MemoryStore) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = memoryObject{data: data, contentType: "application/octet-stream"}
}

// Uploads counts calls to Upload.
func (m *MemoryStore) Uploads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uploads
}
