package file

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

// StorageClient is the slice of cloud storage the controllers need. Tests
// swap in an in-memory fake.
type StorageClient interface {
	UploadFile(objectName string, fileData io.Reader) error
	SignedURL(objectName string, expiry time.Duration) (string, error)
}

// CloudStorageClient implements StorageClient over a GCS bucket
type CloudStorageClient struct {
	BucketName string
	Ctx        context.Context
	Client     *storage.Client
}

// NewCloudStorageClient connects to GCS using ambient credentials
func NewCloudStorageClient(bucketName string) (*CloudStorageClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %v", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Ctx:        ctx,
		Client:     client,
	}, nil
}

// UploadFile writes fileData to the bucket under objectName
func (c *CloudStorageClient) UploadFile(objectName string, fileData io.Reader) error {
	bucket := c.Client.Bucket(c.BucketName)
	obj := bucket.Object(objectName)
	wc := obj.NewWriter(c.Ctx)
	if _, err := io.Copy(wc, fileData); err != nil {
		return fmt.Errorf("failed to write data to object: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %v", err)
	}
	return nil
}

// SignedURL mints a time-limited read link for objectName. Expiry is
// enforced by the storage provider, not by this service.
func (c *CloudStorageClient) SignedURL(objectName string, expiry time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	}
	url, err := c.Client.Bucket(c.BucketName).SignedURL(objectName, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign object url: %v", err)
	}
	return url, nil
}
