package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures an S3-compatible bucket (AWS, R2, MinIO).
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string
	MaxBytes      int64
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads attachments to a bucket.
type S3 struct {
	client   putObjectAPI
	bucket   string
	baseURL  string
	maxBytes int64
}

// NewS3 creates an S3 uploader with static credentials.
func NewS3(_ context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""))
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	s := &S3{
		client:   s3.New(opts),
		bucket:   cfg.Bucket,
		baseURL:  cfg.PublicBaseURL,
		maxBytes: cfg.MaxBytes,
	}
	if s.baseURL == "" || s.baseURL[0] == '/' {
		s.baseURL = defaultObjectURL(cfg)
	}
	return s, nil
}

func defaultObjectURL(cfg S3Config) string {
	if cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s", cfg.Endpoint, cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Upload validates obj and puts it under folder/<uuid><ext>.
// The body is buffered so the SDK can sign a seekable payload.
func (s *S3) Upload(ctx context.Context, folder string, obj Object) (string, error) {
	in, err := Inspect(obj, s.maxBytes)
	if err != nil {
		return "", err
	}

	body := in.Body
	if s.maxBytes > 0 {
		body = io.LimitReader(body, s.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", ErrFileTooLarge
	}

	key := ObjectKey(folder, in.Extension)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(in.ContentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return joinURL(s.baseURL, key), nil
}
