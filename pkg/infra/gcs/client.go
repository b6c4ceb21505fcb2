package gcs

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/officeimg/pkg/domain/interfaces"
	"google.golang.org/api/option"
)

// Client is an ObjectStore writing to a Cloud Storage bucket
type Client struct {
	client *storage.Client
	bucket string
}

var _ interfaces.ObjectStore = (*Client)(nil)

// New creates a Cloud Storage client for bucket. credentialsFile may be empty to use ADC.
func New(ctx context.Context, bucket, credentialsFile string) (*Client, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &Client{
		client: client,
		bucket: bucket,
	}, nil
}

// Close releases the underlying connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Put uploads r to gs://<bucket>/<key>
func (c *Client) Put(ctx context.Context, key string, contentType string, r io.Reader) error {
	w := c.client.Bucket(c.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", c.bucket), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", c.bucket), goerr.V("key", key))
	}
	return nil
}
