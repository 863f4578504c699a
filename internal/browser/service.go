package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"bucket-browser/internal/storage"
	"bucket-browser/internal/utils"
)

const DefaultContentType = "application/octet-stream"

// Backend is the object-storage capability the browser is built on.
// *storage.Client satisfies it.
type Backend interface {
	Lister
	Putter
	Stat(ctx context.Context, key string) (*storage.ObjectInfo, error)
	Get(ctx context.Context, key string) (*storage.FileObject, error)
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
	EnsureBucket(ctx context.Context) error
	Bucket() string
}

type Options struct {
	HideSentinels bool
	MaxUploadSize int64
	PresignTTL    time.Duration
}

// Service exposes the folder view of one bucket. It holds no state besides
// its settings; every call goes straight to the backend.
type Service struct {
	backend Backend
	opts    Options
}

func NewService(backend Backend, opts Options) *Service {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = time.Hour
	}
	return &Service{backend: backend, opts: opts}
}

func (s *Service) MaxUploadSize() int64 {
	return s.opts.MaxUploadSize
}

func (s *Service) List(ctx context.Context, prefix string) ([]Entry, error) {
	return List(ctx, s.backend, prefix, ListOptions{HideSentinels: s.opts.HideSentinels})
}

// Media lists prefix and keeps the image and video files, in listing order.
func (s *Service) Media(ctx context.Context, prefix string) ([]Entry, error) {
	items, err := s.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return FilterMedia(items), nil
}

func (s *Service) CreateFolder(ctx context.Context, prefix, folderName string) (string, error) {
	return CreateFolder(ctx, s.backend, prefix, folderName)
}

// Upload stores body under prefix using the base name of fileName and
// returns the object key.
func (s *Service) Upload(ctx context.Context, prefix, fileName string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	name := utils.BaseName(fileName)
	if name == "" {
		return "", wrap(ErrInvalidName, fmt.Sprintf("file name %q", fileName), nil)
	}
	if s.opts.MaxUploadSize > 0 && size > s.opts.MaxUploadSize {
		return "", wrap(ErrTooLarge, fmt.Sprintf("%d bytes over the %d byte limit", size, s.opts.MaxUploadSize), nil)
	}

	key := prefix + name
	if err := s.backend.Put(ctx, key, body, size, contentType); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return "", wrap(ErrInvalidName, fmt.Sprintf("key %q", key), err)
		}
		return "", wrap(ErrUploadFailed, fmt.Sprintf("key %q", key), err)
	}
	return key, nil
}

// Open stats key for its stored size and content type, then returns a
// streaming reader for it. The caller closes Body.
func (s *Service) Open(ctx context.Context, key string) (*storage.FileObject, error) {
	info, err := s.backend.Stat(ctx, key)
	if err != nil {
		return nil, openError(key, err)
	}

	obj, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, openError(key, err)
	}
	obj.ContentLength = info.Size
	if info.ContentType != "" {
		obj.ContentType = info.ContentType
	}
	if obj.ContentType == "" {
		obj.ContentType = DefaultContentType
	}
	return obj, nil
}

func openError(key string, err error) error {
	if errors.Is(err, storage.ErrNotExist) {
		return wrap(ErrObjectNotFound, fmt.Sprintf("key %q", key), err)
	}
	return wrap(ErrBackendUnavailable, fmt.Sprintf("get %q", key), err)
}

func (s *Service) PresignURL(ctx context.Context, key string) (string, error) {
	url, err := s.backend.Presign(ctx, key, s.opts.PresignTTL)
	if err != nil {
		return "", wrap(ErrBackendUnavailable, fmt.Sprintf("presign %q", key), err)
	}
	return url, nil
}

// EnsureBucket creates the bucket if needed and returns its name.
func (s *Service) EnsureBucket(ctx context.Context) (string, error) {
	if err := s.backend.EnsureBucket(ctx); err != nil {
		return "", wrap(ErrBackendUnavailable, fmt.Sprintf("bucket %q", s.backend.Bucket()), err)
	}
	return s.backend.Bucket(), nil
}
