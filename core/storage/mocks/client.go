package mocks

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client. ListObjects and
// RemoveObjects return a closed channel when no return value is set; use
// Listing and RemoveErrors to build one.
type Client struct {
	mock.Mock
}

// Listing returns a ListObjects result that yields objs. A fresh channel is
// built per call so an expectation can be matched more than once.
func Listing(objs ...minio.ObjectInfo) func() <-chan minio.ObjectInfo {
	return func() <-chan minio.ObjectInfo {
		ch := make(chan minio.ObjectInfo, len(objs))
		for _, o := range objs {
			ch <- o
		}
		close(ch)
		return ch
	}
}

// RemoveErrors returns a RemoveObjects result that yields errs.
func RemoveErrors(errs ...minio.RemoveObjectError) func() <-chan minio.RemoveObjectError {
	return func() <-chan minio.RemoveObjectError {
		ch := make(chan minio.RemoveObjectError, len(errs))
		for _, e := range errs {
			ch <- e
		}
		close(ch)
		return ch
	}
}

func (m *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	info, _ := args.Get(0).(minio.UploadInfo)
	return info, args.Error(1)
}

func (m *Client) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucketName, opts)
	if len(args) > 0 {
		if build, ok := args.Get(0).(func() <-chan minio.ObjectInfo); ok {
			return build()
		}
	}
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func (m *Client) RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	// Drain like the real client so the caller's producer never blocks.
	var keys []string
	for obj := range objectsCh {
		keys = append(keys, obj.Key)
	}
	args := m.Called(ctx, bucketName, keys, opts)
	if len(args) > 0 {
		if build, ok := args.Get(0).(func() <-chan minio.RemoveObjectError); ok {
			return build()
		}
	}
	ch := make(chan minio.RemoveObjectError)
	close(ch)
	return ch
}
