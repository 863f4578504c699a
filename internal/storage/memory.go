package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryProvider keeps buckets in RAM. It backs tests and the "memory"
// provider setting for local development.
type MemoryProvider struct {
	mu      sync.RWMutex
	buckets map[string]map[string]memObject
	now     func() time.Time

	// PublicBase prefixes the URLs returned by Presign.
	PublicBase string
}

type memObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		buckets: make(map[string]map[string]memObject),
		now:     time.Now,
	}
}

func (m *MemoryProvider) bucket(name string) (map[string]memObject, error) {
	b, ok := m.buckets[name]
	if !ok {
		return nil, fmt.Errorf("bucket %s: %w", name, ErrNotExist)
	}
	return b, nil
}

func (m *MemoryProvider) List(ctx context.Context, bucket, prefix string) (*Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(b))
	for key := range b {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	listing := &Listing{}
	seen := make(map[string]bool)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if i := strings.Index(rest, Delimiter); i >= 0 {
			cp := prefix + rest[:i+1]
			if !seen[cp] {
				seen[cp] = true
				listing.CommonPrefixes = append(listing.CommonPrefixes, cp)
			}
			continue
		}
		obj := b[key]
		listing.Objects = append(listing.Objects, ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
			ContentType:  obj.contentType,
		})
	}
	return listing, nil
}

func (m *MemoryProvider) Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return nil, err
	}
	obj, ok := b[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotExist)
	}
	return &ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		LastModified: obj.lastModified,
		ContentType:  obj.contentType,
	}, nil
}

func (m *MemoryProvider) Get(ctx context.Context, bucket, key string) (*FileObject, error) {
	info, err := m.Stat(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	data := m.buckets[bucket][key].data
	m.mu.RUnlock()

	return &FileObject{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: info.Size,
		ContentType:   info.ContentType,
		LastModified:  info.LastModified,
	}, nil
}

func (m *MemoryProvider) Put(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	b[key] = memObject{data: data, contentType: contentType, lastModified: m.now()}
	return nil
}

func (m *MemoryProvider) BucketExists(ctx context.Context, bucket string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.buckets[bucket]
	return ok, nil
}

func (m *MemoryProvider) MakeBucket(ctx context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string]memObject)
	}
	return nil
}

func (m *MemoryProvider) Presign(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return gatewayURL(m.PublicBase, key), nil
}
