package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ErrBucketMissing is returned when the target bucket does not exist.
var ErrBucketMissing = errors.New("bucket does not exist")

// Project scopes a client to one bucket and key prefix. Every key it accepts
// or returns is relative to the prefix.
type Project struct {
	client Client
	bucket string
	prefix string
}

// NewProject creates a project view over client. Leading and trailing
// slashes of prefix are ignored.
func NewProject(client Client, bucket, prefix string) *Project {
	return &Project{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Bucket returns the bucket name.
func (p *Project) Bucket() string { return p.bucket }

// Key joins parts below the prefix into an object key.
func (p *Project) Key(parts ...string) string {
	if p.prefix == "" {
		return path.Join(parts...)
	}
	return path.Join(append([]string{p.prefix}, parts...)...)
}

// Check verifies the bucket exists.
func (p *Project) Check(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", p.bucket, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", p.bucket, ErrBucketMissing)
	}
	return nil
}

// List returns the size of every object below dir, keyed by its path
// relative to dir.
func (p *Project) List(ctx context.Context, dir string) (map[string]int64, error) {
	listPrefix := p.Key(dir) + "/"
	out := make(map[string]int64)
	for obj := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{Prefix: listPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", listPrefix, obj.Err)
		}
		out[strings.TrimPrefix(obj.Key, listPrefix)] = obj.Size
	}
	return out, nil
}

// PutFile uploads a local file to key and returns the uploaded size.
func (p *Project) PutFile(ctx context.Context, file, key, contentType string) (int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", file, err)
	}
	if _, err := p.client.PutObject(ctx, p.bucket, key, f, info.Size(), minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return 0, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return info.Size(), nil
}

// Remove deletes keys in one batch and returns how many were removed.
func (p *Project) Remove(ctx context.Context, keys []string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	objects := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		objects <- minio.ObjectInfo{Key: k}
	}
	close(objects)

	var errs []error
	for e := range p.client.RemoveObjects(ctx, p.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("failed to remove %s: %w", e.ObjectName, e.Err))
	}
	return len(keys) - len(errs), errors.Join(errs...)
}
