// Package storage wraps the S3-compatible object store that holds product
// images.  The rest of the application treats it as an opaque blob store: it
// hands over a stream and gets back a public URL to persist on the product.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/iliyamo/online-storefront/internal/config"
)

// BlobStore stores an object and returns its publicly addressable URL.
type BlobStore interface {
	Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// S3Store implements BlobStore against S3 or MinIO.
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Store builds an S3Store from the application config.  It returns nil
// when the blob store is not configured, in which case image uploads are
// rejected by the handlers.
func NewS3Store(cfg config.Config) (*S3Store, error) {
	if cfg.S3Bucket == "" || cfg.S3Endpoint == "" {
		return nil, nil
	}
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		// MinIO serves buckets under the endpoint path, not a subdomain.
		o.UsePathStyle = true
	})

	publicURL := strings.TrimRight(cfg.S3PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}
	return &S3Store{client: client, bucket: cfg.S3Bucket, publicURL: publicURL}, nil
}

// Put streams the object under a date-partitioned random key and returns the
// public URL.  The original filename only contributes its extension.
func (s *S3Store) Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := objectKey(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

// objectKey partitions uploads by date so buckets stay browsable and key
// collisions are impossible regardless of the uploaded filename.
func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	d := time.Now().UTC()
	return fmt.Sprintf("products/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
