package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Delimiter separates virtual folders inside object keys.
const Delimiter = "/"

// ErrNotExist is returned by Stat and Get when the key is absent.
var ErrNotExist = errors.New("object does not exist")

// ErrInvalidKey is returned by providers that cannot store a key as given,
// e.g. a local directory tree refusing "." and ".." segments.
var ErrInvalidKey = errors.New("invalid object key")

// StorageProvider defines the behavior for any storage backend.
// List is a delimiter listing: it returns the objects directly under prefix
// and the common prefixes one segment below it, with every page collected.
type StorageProvider interface {
	List(ctx context.Context, bucket, prefix string) (*Listing, error)
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)
	Get(ctx context.Context, bucket, key string) (*FileObject, error)
	Put(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) error
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string) error
	Presign(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// Listing is one fully materialized delimiter listing.
type Listing struct {
	CommonPrefixes []string
	Objects        []ObjectInfo
}

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Object is the provider-agnostic representation of a file.
type FileObject struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	LastModified  time.Time
}
