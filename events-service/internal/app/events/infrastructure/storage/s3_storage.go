package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"eventhub/events-service/internal/app/events/infrastructure"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config - параметры S3-совместимого бакета (AWS, Cloudflare R2, MinIO)
type S3Config struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicPrefix    string
}

// S3API - подмножество клиента s3, которое нужно хранилищу
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
	client       S3API
	bucket       string
	publicPrefix string
}

// NewS3Storage создает клиента. Статические ключи используются, если заданы,
// иначе работает стандартная цепочка учетных данных AWS.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StorageWithClient(client, cfg.Bucket, cfg.PublicPrefix), nil
}

func NewS3StorageWithClient(client S3API, bucket, publicPrefix string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, publicPrefix: publicPrefix}
}

func (s *S3Storage) Save(ctx context.Context, name string, contentType string, content io.Reader) (string, error) {
	if !ValidName(name) {
		return "", infrastructure.ErrUnsupportedImage
	}

	// SDK требует известную длину тела; изображение уже ограничено лимитом размера
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.publicPrefix + "/" + name, nil
}

func (s *S3Storage) Open(ctx context.Context, name string) (*infrastructure.ImageObject, error) {
	if !ValidName(name) {
		return nil, infrastructure.ErrImageNotFound
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, infrastructure.ErrImageNotFound
		}
		return nil, fmt.Errorf("get object: %w", err)
	}

	obj := &infrastructure.ImageObject{
		Body:        out.Body,
		ContentType: contentTypeFor(name),
		Size:        -1,
	}
	if out.ContentType != nil {
		obj.ContentType = *out.ContentType
	}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
	}
	return obj, nil
}

func (s *S3Storage) Delete(ctx context.Context, path string) error {
	name, ok := nameFromPath(s.publicPrefix, path)
	if !ok {
		return fmt.Errorf("%w: %s", infrastructure.ErrImageNotFound, path)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
