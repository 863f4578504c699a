package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type LocalProvider struct {
	// RootPath is the directory where buckets are simulated (e.g., "./data")
	RootPath string
	// PublicBase prefixes the URLs returned by Presign (e.g., "http://localhost:3001").
	PublicBase string
}

func NewLocalProvider(root string) *LocalProvider {
	// Ensure the root directory exists
	_ = os.MkdirAll(root, 0755)
	return &LocalProvider{RootPath: root}
}

// resolve maps key onto a file below the bucket directory. Keys that would
// not survive path.Clean unchanged (".", "..", doubled slashes) are refused so
// no key can address anything outside the bucket.
func (l *LocalProvider) resolve(bucket, key string) (string, error) {
	trimmed := strings.TrimSuffix(key, Delimiter)
	cleaned := path.Clean(Delimiter + trimmed)
	if cleaned != Delimiter+trimmed || strings.Contains(key, `\`) {
		return "", fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return filepath.Join(l.RootPath, bucket, filepath.FromSlash(cleaned)), nil
}

// List reads only the directory that holds prefix, so it behaves like a
// delimiter listing: sub-directories become common prefixes.
func (l *LocalProvider) List(ctx context.Context, bucket, prefix string) (*Listing, error) {
	listing := &Listing{}

	dirKey := ""
	if i := strings.LastIndex(prefix, Delimiter); i >= 0 {
		dirKey = prefix[:i+1]
	}

	dir, err := l.resolve(bucket, dirKey)
	if errors.Is(err, ErrInvalidKey) {
		// No stored key can live under such a prefix.
		return listing, nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return listing, nil
	}
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Convert OS path back to S3-style key (forward slashes)
		key := dirKey + entry.Name()
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		if entry.IsDir() {
			listing.CommonPrefixes = append(listing.CommonPrefixes, key+Delimiter)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		listing.Objects = append(listing.Objects, ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  contentTypeOf(key),
		})
	}

	sort.Strings(listing.CommonPrefixes)
	return listing, nil
}

func (l *LocalProvider) Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	p, err := l.resolve(bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, ErrNotExist)
	}
	info, err := os.Stat(p)
	if os.IsNotExist(err) || (err == nil && info.IsDir()) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotExist)
	}
	if err != nil {
		return nil, err
	}
	return &ObjectInfo{
		Key:          key,
		Size:         info.Size(),
		LastModified: info.ModTime(),
		ContentType:  contentTypeOf(key),
	}, nil
}

func (l *LocalProvider) Get(ctx context.Context, bucket, key string) (*FileObject, error) {
	p, err := l.resolve(bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, ErrNotExist)
	}
	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotExist)
	}
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s: %w", key, ErrNotExist)
	}

	return &FileObject{
		Body:          f,
		ContentLength: stat.Size(),
		ContentType:   contentTypeOf(key),
		LastModified:  stat.ModTime(),
	}, nil
}

func (l *LocalProvider) Put(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) error {
	p, err := l.resolve(bucket, key)
	if err != nil {
		return err
	}

	// Ensure sub-directories exist (e.g. bucket/folder/file.jpg)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}

func (l *LocalProvider) BucketExists(ctx context.Context, bucket string) (bool, error) {
	info, err := os.Stat(filepath.Join(l.RootPath, bucket))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (l *LocalProvider) MakeBucket(ctx context.Context, bucket string) error {
	return os.MkdirAll(filepath.Join(l.RootPath, bucket), 0755)
}

// Presign has no signature to add on a local disk; it points back at the
// gateway preview route.
func (l *LocalProvider) Presign(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	return gatewayURL(l.PublicBase, key), nil
}

func gatewayURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/api/files/preview?path=" + url.QueryEscape(key)
}

// Local files usually don't store a content type; guess it from the extension.
func contentTypeOf(key string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(key))); ct != "" {
		return ct
	}
	return ""
}
