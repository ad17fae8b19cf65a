package credentials

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/imamik/gearpump-broker/internal/platform/s3"
)

// ObjectStore is the subset of the S3 client used by S3Backend.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
	PutObjectIfAbsent(ctx context.Context, key string, data []byte) error
}

// S3Backend stores records as objects in a bucket, optionally under a key prefix.
type S3Backend struct {
	objects ObjectStore
	prefix  string
}

// NewS3Backend creates a backend over objects.
func NewS3Backend(objects ObjectStore, prefix string) *S3Backend {
	return &S3Backend{objects: objects, prefix: strings.Trim(prefix, "/")}
}

func (b *S3Backend) key(p string) string {
	p = strings.TrimPrefix(p, "/")
	if b.prefix == "" {
		return p
	}
	return path.Join(b.prefix, p)
}

func (b *S3Backend) Put(ctx context.Context, p string, data []byte) error {
	return b.objects.PutObject(ctx, b.key(p), data)
}

func (b *S3Backend) Get(ctx context.Context, p string) ([]byte, error) {
	data, err := b.objects.GetObject(ctx, b.key(p))
	if err != nil {
		if s3.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, err
	}
	return data, nil
}

func (b *S3Backend) Delete(ctx context.Context, p string) error {
	return b.objects.DeleteObject(ctx, b.key(p))
}

func (b *S3Backend) Create(ctx context.Context, p string, data []byte) error {
	err := b.objects.PutObjectIfAbsent(ctx, b.key(p), data)
	if errors.Is(err, s3.ErrObjectExists) {
		return fmt.Errorf("%w: %s", ErrExists, p)
	}
	return err
}
