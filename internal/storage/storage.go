package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"bucket-browser/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
)

// Client binds a StorageProvider to the one bucket the browser serves.
type Client struct {
	backend StorageProvider
	bucket  string
}

func NewClient(backend StorageProvider, bucket string) *Client {
	return &Client{backend: backend, bucket: bucket}
}

func New(cfg *config.Config) (*Client, error) {
	var backend StorageProvider

	switch cfg.Storage.Provider {
	case "local":
		local := NewLocalProvider(cfg.Storage.LocalRoot)
		local.PublicBase = cfg.Storage.PublicBase
		backend = local
	case "memory":
		mem := NewMemoryProvider()
		mem.PublicBase = cfg.Storage.PublicBase
		backend = mem
	case "s3":
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
			Region:           aws.String(cfg.Storage.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		if cfg.Storage.Endpoint != "" {
			s3Config.Endpoint = aws.String(cfg.Storage.Endpoint)
		}
		sess, err := session.NewSession(s3Config)
		if err != nil {
			return nil, fmt.Errorf("aws session: %w", err)
		}
		backend = NewS3Provider(sess)
	case "minio":
		mp, err := NewMinioProvider(cfg.Storage.Endpoint, cfg.Storage.KeyID, cfg.Storage.AppKey, cfg.Storage.Region, cfg.Storage.UseSSL)
		if err != nil {
			return nil, err
		}
		backend = mp
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}

	return NewClient(backend, cfg.Storage.Bucket), nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

func (c *Client) List(ctx context.Context, prefix string) (*Listing, error) {
	return c.backend.List(ctx, c.bucket, prefix)
}

func (c *Client) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	return c.backend.Stat(ctx, c.bucket, key)
}

func (c *Client) Get(ctx context.Context, key string) (*FileObject, error) {
	return c.backend.Get(ctx, c.bucket, key)
}

func (c *Client) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	return c.backend.Put(ctx, c.bucket, key, body, size, contentType)
}

func (c *Client) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return c.backend.Presign(ctx, c.bucket, key, ttl)
}

// EnsureBucket creates the bucket when it is missing.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.backend.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.backend.MakeBucket(ctx, c.bucket)
}
