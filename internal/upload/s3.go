package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the S3 call the backend makes.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Backend stores uploads in one bucket. An endpoint selects an
// S3-compatible store with path-style addressing.
type S3Backend struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

func NewS3Backend(ctx context.Context, cfg config.StorageConfig) (*S3Backend, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3_BUCKET not configured")
	}

	var optFns []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	optFns = append(optFns, awsconfig.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}))

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3BackendWith(client, cfg), nil
}

// NewS3BackendWith wraps an existing client.
func NewS3BackendWith(client ObjectPutter, cfg config.StorageConfig) *S3Backend {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	switch {
	case base != "":
	case cfg.Endpoint != "":
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Backend{client: client, bucket: cfg.Bucket, baseURL: base}
}

func (b *S3Backend) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (b *S3Backend) URL(key string) string { return b.baseURL + "/" + key }
