package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/flower-server/internal/model"
)

const (
	objectSuffix    = ".json"
	contentTypeJSON = "application/json"
	noSuchKey       = "NoSuchKey"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
func (w minioClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}
func (w minioClientWrapper) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return w.c.ListObjects(ctx, bucketName, opts)
}

var _ model.DocumentStore = (*Client)(nil)

// Client stores each document as a JSON object at "<collection>/<id>.json".
//
// Create and Update are serialized within the process; several processes
// sharing one bucket may race on the same id.
type Client struct {
	api    minioAPI
	bucket string
	mu     sync.Mutex
}

// NewClient creates a new MinIO document store using a real *minio.Client instance.
func NewClient(ctx context.Context, client *minio.Client, bucket string) (*Client, error) {
	return NewClientWithAPI(ctx, minioClientWrapper{c: client}, bucket)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket string) (*Client, error) {
	c := &Client{
		api:    api,
		bucket: bucket,
	}

	err := c.ensureBucketExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (c *Client) Get(ctx context.Context, collection, id string) (model.Document, error) {
	return c.read(ctx, objectKey(collection, id))
}

func (c *Client) Create(ctx context.Context, collection, id string, data model.Document) error {
	key := objectKey(collection, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	exists, err := c.exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrAlreadyExists
	}

	return c.write(ctx, key, data)
}

func (c *Client) Update(ctx context.Context, collection, id string, patch model.Document) error {
	key := objectKey(collection, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.read(ctx, key)
	if err != nil {
		return err
	}
	for k, v := range patch {
		doc[k] = v
	}

	return c.write(ctx, key, doc)
}

func (c *Client) List(ctx context.Context, collection string) ([]model.DocumentRef, error) {
	prefix := collection + "/"

	var refs []model.DocumentRef
	for obj := range c.api.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, objectSuffix) {
			continue
		}

		id, err := url.PathUnescape(strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), objectSuffix))
		if err != nil {
			return nil, fmt.Errorf("failed to decode object key %q: %w", obj.Key, err)
		}

		doc, err := c.read(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		refs = append(refs, model.DocumentRef{ID: id, Data: doc})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })

	return refs, nil
}

// Ping checks that the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.BucketExists(ctx, c.bucket); err != nil {
		return fmt.Errorf("failed to reach bucket: %w", err)
	}
	return nil
}

func (c *Client) read(ctx context.Context, key string) (model.Document, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, notFoundOr(err, "failed to get object")
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		return nil, notFoundOr(err, "failed to read object")
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	if doc == nil {
		doc = model.Document{}
	}

	return doc, nil
}

func (c *Client) write(ctx context.Context, key string, doc model.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(raw), int64(len(raw)),
		minio.PutObjectOptions{ContentType: contentTypeJSON})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	return nil
}

func (c *Client) exists(ctx context.Context, key string) (bool, error) {
	_, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

func notFoundOr(err error, msg string) error {
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return model.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func objectKey(collection, id string) string {
	return collection + "/" + url.PathEscape(id) + objectSuffix
}
