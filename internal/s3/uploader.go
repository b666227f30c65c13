// server/internal/s3/uploader.go
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"square-feet-api/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNoSuchKey is returned by Download when the object does not exist.
var ErrNoSuchKey = errors.New("object not found")

// Uploader reads and writes objects in S3 or an S3-compatible store.
type Uploader struct {
	Client *s3.Client
	Bucket string
}

func NewUploader(ctx context.Context, cfg config.S3Config) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{
		Client: client,
		Bucket: cfg.Bucket,
	}, nil
}

func (u *Uploader) bucket(bucket string) string {
	if bucket == "" {
		return u.Bucket
	}
	return bucket
}

// Upload writes body to bucket/key. An empty bucket means the configured one.
func (u *Uploader) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket(bucket)),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", u.bucket(bucket), key, err)
	}
	return nil
}

// Download opens bucket/key. The caller closes the returned reader.
func (u *Uploader) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := u.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket(bucket)),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNoSuchKey, u.bucket(bucket), key)
		}
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", u.bucket(bucket), key, err)
	}
	return out.Body, nil
}
