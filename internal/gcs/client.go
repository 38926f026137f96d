// Package gcs wraps Google Cloud Storage: object upload/download, bounded
// concurrent directory upload, and V4 signed URL generation and retrieval.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// Client wraps a Cloud Storage connection.
type Client struct {
	gcs *storage.Client
}

// NewClient creates a Cloud Storage client. credentialsFile is a service
// account JSON key; empty falls back to application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &Client{gcs: client}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.gcs.Close()
}

// DefaultObjectName returns the object name to use when the caller gave
// none: the base name of the local file.
func DefaultObjectName(localPath, objectName string) string {
	if objectName != "" {
		return objectName
	}
	return filepath.Base(localPath)
}

// Upload streams a local file into gs://bucket/objectName.
func (c *Client) Upload(ctx context.Context, bucket, localPath, objectName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	w := c.gcs.Bucket(bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("uploading to gs://%s/%s: %w", bucket, objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing gs://%s/%s: %w", bucket, objectName, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("local", localPath).
		Str("object", fmt.Sprintf("gs://%s/%s", bucket, objectName)).
		Msg("uploaded")
	return nil
}

// Download streams gs://bucket/objectName into a local file, creating
// parent directories.
func (c *Client) Download(ctx context.Context, bucket, objectName, localPath string) error {
	r, err := c.gcs.Bucket(bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("opening gs://%s/%s: %w", bucket, objectName, err)
	}
	defer r.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o750); err != nil {
		return fmt.Errorf("creating directory for %s: %w", localPath, err)
	}
	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", localPath, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("downloading gs://%s/%s: %w", bucket, objectName, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("object", fmt.Sprintf("gs://%s/%s", bucket, objectName)).
		Str("local", localPath).
		Msg("downloaded")
	return nil
}

// UploadDir uploads every regular file under dir to the bucket, prefixing
// object names with prefix. Uploads run concurrently with a bounded limit;
// limit < 1 defaults to the CPU count.
func (c *Client) UploadDir(ctx context.Context, bucket, dir, prefix string, limit int) error {
	if limit < 1 {
		limit = runtime.NumCPU()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		objectName := path.Join(prefix, filepath.ToSlash(rel))

		g.Go(func() error {
			return c.Upload(gCtx, bucket, p, objectName)
		})
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("walking %s: %w", dir, walkErr)
	}

	return g.Wait()
}

// SignedURL generates a V4 GET signed URL for the object, valid for ttl.
func (c *Client) SignedURL(bucket, objectName string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("signed URL TTL must be positive")
	}

	url, err := c.gcs.Bucket(bucket).SignedURL(objectName, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("signing gs://%s/%s: %w", bucket, objectName, err)
	}
	return url, nil
}
