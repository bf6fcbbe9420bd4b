// Package publish uploads rendered artifacts to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/matzehuels/chartwire/pkg/cache"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// DefaultRegion is used when S3Config.Region is empty.
const DefaultRegion = "us-east-1"

// S3Config configures an S3Publisher.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// Prefix is prepended to every object key.
	Prefix string
	UseSSL bool
}

// S3Publisher uploads artifacts to a bucket under <prefix>/<name>/<file>.
type S3Publisher struct {
	client   *minio.Client
	bucket   string
	region   string
	prefix   string
	endpoint string
	secure   bool
	logger   *log.Logger

	initOnce sync.Once
	initErr  error
}

// Upload is one published object.
type Upload struct {
	Key  string
	Size int
	URL  string
}

// NewS3Publisher validates cfg and creates the client. No request is made
// until the first Publish.
func NewS3Publisher(cfg S3Config, logger *log.Logger) (*S3Publisher, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = DefaultRegion
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "init s3 client")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &S3Publisher{
		client:   client,
		bucket:   bucket,
		region:   region,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		endpoint: endpoint,
		secure:   cfg.UseSSL,
		logger:   logger,
	}, nil
}

func (p *S3Publisher) ensureBucket(ctx context.Context) error {
	p.initOnce.Do(func() {
		p.initErr = cache.RetryWithBackoff(ctx, func() error {
			exists, err := p.client.BucketExists(ctx, p.bucket)
			if err != nil {
				return retryable(err)
			}
			if exists {
				return nil
			}
			p.logger.Info("creating bucket", "bucket", p.bucket, "region", p.region)
			return retryable(p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}))
		})
	})
	return p.initErr
}

// Publish uploads every artifact under name (usually a report or chart id)
// and returns the uploads in key order.
func (p *S3Publisher) Publish(ctx context.Context, name string, artifacts map[string][]byte) ([]Upload, error) {
	if err := errs.ValidateChartID(name); err != nil {
		return nil, err
	}
	if err := p.ensureBucket(ctx); err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "ensure bucket %s", p.bucket)
	}

	files := make([]string, 0, len(artifacts))
	for file := range artifacts {
		files = append(files, file)
	}
	sort.Strings(files)

	uploads := make([]Upload, 0, len(files))
	for _, file := range files {
		data := artifacts[file]
		key := p.ObjectKey(name, file)
		err := cache.RetryWithBackoff(ctx, func() error {
			_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
				ContentType: ContentType(file),
			})
			return retryable(err)
		})
		if err != nil {
			return uploads, errs.Wrap(errs.ErrCodeNetwork, err, "upload %s", key)
		}
		p.logger.Debug("uploaded artifact", "key", key, "bytes", len(data))
		uploads = append(uploads, Upload{Key: key, Size: len(data), URL: p.ObjectURL(key)})
	}
	return uploads, nil
}

// ObjectKey returns the key an artifact is stored under.
func (p *S3Publisher) ObjectKey(name, file string) string {
	return path.Join(p.prefix, name, strings.TrimLeft(file, "/"))
}

// ObjectURL returns the path-style URL of key. It is only readable if the
// bucket allows anonymous reads.
func (p *S3Publisher) ObjectURL(key string) string {
	scheme := "http"
	if p.secure {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: p.endpoint, Path: "/" + p.bucket + "/" + key}
	return u.String()
}

// ContentType returns the MIME type for an artifact file name.
func ContentType(file string) string {
	switch path.Ext(file) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	case ".json":
		return "application/json"
	}
	if t := mime.TypeByExtension(path.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// retryable marks transport and server-side failures for retry. Client
// errors (bad credentials, invalid bucket names) fail immediately.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return err
	}
	return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
}
