package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"modelhub/internal/config"
	"modelhub/internal/logger"
)

// Indirections over the AWS SDK so tests can stub the network calls.
var (
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}

	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3Storage is the S3 (or S3-compatible) implementation of [Storage].
// Locators take the "s3://{bucket}/{key}" form.
type S3Storage struct {
	client   *s3.Client
	bucket   string
	maxBytes int64
	logger   *logger.Logger
}

var _ Storage = (*S3Storage)(nil)

// NewS3Storage builds an S3-backed [Storage] from the assets configuration.
// When static credentials are configured they take precedence over the
// default AWS credential chain; a non-empty endpoint switches the client to
// an S3-compatible store such as MinIO.
func NewS3Storage(ctx context.Context, cfg config.Assets, log *logger.Logger) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Err(err).Str("func", "NewS3Storage").Msg("error loading aws config")
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:   client,
		bucket:   cfg.S3Bucket,
		maxBytes: cfg.MaxUploadBytes,
		logger:   log,
	}, nil
}

// Store implements [Storage].
func (s *S3Storage) Store(ctx context.Context, r io.Reader, filename string, size int64) (string, error) {
	log := logger.FromContext(ctx)

	fileType := FileType(filename)
	if fileType == "" {
		return "", ErrUnsupportedFileType
	}
	if size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	key := generateName(fileType)
	_, err := putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          io.LimitReader(r, s.maxBytes),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ContentType(filename)),
	})
	if err != nil {
		log.Err(err).Str("func", "*S3Storage.Store").Msg("error uploading asset object")
		return "", fmt.Errorf("error uploading asset object: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Open implements [Storage].
func (s *S3Storage) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	key, err := s.keyOf(locator)
	if err != nil {
		return nil, err
	}

	out, err := getObject(s.client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("error fetching asset object: %w", err)
	}
	return out.Body, nil
}

// Release implements [Storage]. S3 deletes are idempotent, so a locator
// whose object is already gone is not an error.
func (s *S3Storage) Release(ctx context.Context, locator string) error {
	if IsExternal(locator) {
		return nil
	}

	key, err := s.keyOf(locator)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err = deleteObject(s.client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*S3Storage.Release").Msg("error deleting asset object")
		return fmt.Errorf("error deleting asset object: %w", err)
	}
	return nil
}

func (s *S3Storage) keyOf(locator string) (string, error) {
	prefix := fmt.Sprintf("s3://%s/", s.bucket)
	if len(locator) <= len(prefix) || locator[:len(prefix)] != prefix {
		return "", ErrAssetNotFound
	}
	return locator[len(prefix):], nil
}
