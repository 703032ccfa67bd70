package images

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options configures an S3-compatible bucket (MinIO works with path-style URLs).
type S3Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	BaseEndpoint string
}

// S3Store keeps images in a bucket. References are path-style object URLs:
// <BaseEndpoint>/<bucket>/<key>.
type S3Store struct {
	api     objectAPI
	bucket  string
	baseURL string
}

func NewS3Store(ctx context.Context, o S3Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(opts *s3.Options) {
		opts.BaseEndpoint = aws.String(o.BaseEndpoint)
		opts.UsePathStyle = true
	})

	return newS3Store(client, o.Bucket, o.BaseEndpoint), nil
}

func newS3Store(api objectAPI, bucket, endpoint string) *S3Store {
	return &S3Store{
		api:     api,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(endpoint, "/") + "/" + bucket + "/",
	}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put: %w", err)
	}
	return s.baseURL + key, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	if !s.Owns(ref) {
		return nil
	}
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(ref, s.baseURL)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete: %w", err)
	}
	return nil
}

func (s *S3Store) Owns(ref string) bool {
	return strings.HasPrefix(ref, s.baseURL) && len(ref) > len(s.baseURL)
}

func (s *S3Store) Key(ref string) (string, bool) {
	if !s.Owns(ref) {
		return "", false
	}
	return strings.TrimPrefix(ref, s.baseURL), true
}
