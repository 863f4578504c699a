package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioProvider talks to MinIO (or any S3-compatible endpoint) through minio-go.
type MinioProvider struct {
	api    *minio.Client
	region string
}

func NewMinioProvider(endpoint, keyID, appKey, region string, useSSL bool) (*MinioProvider, error) {
	api, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(keyID, appKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client for %s: %w", endpoint, err)
	}
	return &MinioProvider{api: api, region: region}, nil
}

func (m *MinioProvider) List(ctx context.Context, bucket, prefix string) (*Listing, error) {
	listing := &Listing{}
	// Recursive=false makes minio-go send Delimiter "/".
	objects := m.api.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, obj.Err
		}
		// Common prefixes arrive as zero-size entries whose key ends with the delimiter.
		if obj.Size == 0 && obj.ETag == "" && len(obj.Key) > 0 && obj.Key[len(obj.Key)-1] == '/' {
			listing.CommonPrefixes = append(listing.CommonPrefixes, obj.Key)
			continue
		}
		listing.Objects = append(listing.Objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ContentType:  obj.ContentType,
		})
	}
	return listing, nil
}

func (m *MinioProvider) Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	info, err := m.api.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, minioError(key, err)
	}
	return &ObjectInfo{
		Key:          key,
		Size:         info.Size,
		LastModified: info.LastModified,
		ContentType:  info.ContentType,
	}, nil
}

func (m *MinioProvider) Get(ctx context.Context, bucket, key string) (*FileObject, error) {
	obj, err := m.api.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, minioError(key, err)
	}
	// GetObject is lazy; Stat forces the request so a missing key fails here.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, minioError(key, err)
	}
	return &FileObject{
		Body:          obj,
		ContentLength: info.Size,
		ContentType:   info.ContentType,
		LastModified:  info.LastModified,
	}, nil
}

func (m *MinioProvider) Put(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, contentType string) error {
	_, err := m.api.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *MinioProvider) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return m.api.BucketExists(ctx, bucket)
}

func (m *MinioProvider) MakeBucket(ctx context.Context, bucket string) error {
	return m.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.region})
}

func (m *MinioProvider) Presign(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := m.api.PresignedGetObject(ctx, bucket, key, ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func minioError(key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" {
		return fmt.Errorf("%s: %w", key, ErrNotExist)
	}
	return err
}
