package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kbukum/meetingscribe/storage"
)

// Config holds S3 storage configuration. Credentials are passed explicitly;
// the backend never reads ambient environment state on its own.
type Config struct {
	// Bucket is the S3 bucket name.
	Bucket string `mapstructure:"bucket" validate:"required"`
	// Region is the AWS region.
	Region string `mapstructure:"region" validate:"required"`
	// AccessKey is the AWS access key ID. Empty falls back to the default
	// AWS credential chain.
	AccessKey string `mapstructure:"access_key"`
	// SecretKey is the AWS secret access key.
	SecretKey string `mapstructure:"secret_key"`
}

// Storage implements storage.Storage using Amazon S3.
type Storage struct {
	client *awss3.Client
	bucket string
}

// NewStorage creates a new S3 storage client from the given config.
func NewStorage(ctx context.Context, cfg Config) (*Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	return &Storage{
		client: awss3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
	}, nil
}

// Upload writes data from reader to S3.
func (s *Storage) Upload(ctx context.Context, key string, reader io.Reader) error {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return fmt.Errorf("storage: s3 upload: %w", err)
	}
	return nil
}

// Download returns a reader for the S3 object at the given key.
func (s *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: s3 download: %w", err)
	}
	return out.Body, nil
}

// Delete removes an S3 object. Returns nil if the object does not exist.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: s3 delete: %w", err)
	}
	return nil
}

// URL returns the s3:// URI for the object, the form AWS Transcribe accepts
// as a media file URI.
func (s *Storage) URL(_ context.Context, key string) (string, error) {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// compile-time check
var _ storage.Storage = (*Storage)(nil)
