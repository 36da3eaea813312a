// Package objstore moves trace inputs and exported results between the
// local filesystem and an S3-compatible object store.
package objstore

import (
	"context"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kakaromo/trace/internal/errors"
	"github.com/kakaromo/trace/internal/logging"
)

var log = logging.Component("objstore")

// Config holds object store connection settings.
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether the config names an endpoint to talk to.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// Client wraps a MinIO client bound to one bucket.
type Client struct {
	mc     *minio.Client
	bucket string
}

// New connects to the object store and verifies the bucket exists.
func New(ctx context.Context, cfg Config) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect object store")
	}

	ok, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket")
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrBucketNotFound, "bucket %q", cfg.Bucket)
	}
	return &Client{mc: mc, bucket: cfg.Bucket}, nil
}

// Upload stores a local file under the given object key.
func (c *Client) Upload(ctx context.Context, key, localPath string) error {
	info, err := c.mc.FPutObject(ctx, c.bucket, key, localPath, minio.PutObjectOptions{})
	if err != nil {
		return errors.Wrapf(errors.ErrUploadFailed, "%s: %v", key, err)
	}
	log.Info("uploaded", "key", key, "bytes", info.Size)
	return nil
}

// UploadDir uploads every file in dir under prefix, non-recursively.
func (c *Client) UploadDir(ctx context.Context, prefix, dir string) error {
	entries, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return errors.Wrap(err, "list export dir")
	}
	for _, path := range entries {
		key := prefix + "/" + filepath.Base(path)
		if err := c.Upload(ctx, key, path); err != nil {
			return err
		}
	}
	return nil
}

// Download fetches an object into localPath.
func (c *Client) Download(ctx context.Context, key, localPath string) error {
	if err := c.mc.FGetObject(ctx, c.bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return errors.Wrapf(errors.ErrDownloadFailed, "%s: %v", key, err)
	}
	log.Info("downloaded", "key", key, "to", localPath)
	return nil
}
