// Package objectstore stores book files in a MinIO / S3 compatible bucket.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mrlokans/online-library/internal/storage"
)

// Store implements storage.FileStore on a bucket.
type Store struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// NewStore connects to MinIO and ensures the bucket exists.
func NewStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &Store{client: client, bucket: bucket, now: time.Now}, nil
}

// Save probes for a free key before uploading. Two writers racing for the
// same millisecond and name can still collide; the later PutObject wins.
func (s *Store) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	at := s.now()

	for attempt := 0; attempt < storage.MaxKeyAttempts; attempt++ {
		key := storage.NewKey(at.Add(time.Duration(attempt)*time.Millisecond), name)

		taken, err := s.exists(ctx, key)
		if err != nil {
			return "", err
		}
		if taken {
			continue
		}

		_, err = s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		if err != nil {
			return "", fmt.Errorf("put object: %w", err)
		}
		return key, nil
	}

	return "", fmt.Errorf("no free key for %q after %d attempts", name, storage.MaxKeyAttempts)
}

func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat object: %w", err)
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if !storage.ValidKey(key) {
		return nil, storage.ErrNotExist
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing key
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNotFound(err) {
			return nil, storage.ErrNotExist
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}
	return obj, nil
}

// Remove succeeds for missing keys, matching S3 DeleteObject semantics.
func (s *Store) Remove(ctx context.Context, key string) error {
	if !storage.ValidKey(key) {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]storage.Object, error) {
	var objects []storage.Object
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects: %w", info.Err)
		}
		objects = append(objects, storage.Object{
			Key:     info.Key,
			Size:    info.Size,
			ModTime: info.LastModified,
		})
	}
	return objects, nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
