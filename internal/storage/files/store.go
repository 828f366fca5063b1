package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
)

// Object is an open product file. Size is -1 when unknown.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Store opens product files by key.
type Store interface {
	Open(ctx context.Context, key string) (*Object, error)
}

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads product files from a single bucket.
type S3Store struct {
	client objectGetter
	bucket string
	logger *slog.Logger
}

func NewS3Store(client objectGetter, bucket string, logger *slog.Logger) *S3Store {
	return &S3Store{client: client, bucket: bucket, logger: logger}
}

// Open streams key from the bucket. Missing objects map to ErrNotFound,
// any other failure to ErrUpstream.
func (s *S3Store) Open(ctx context.Context, key string) (*Object, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: product has no file", domainErrors.ErrNotFound)
	}
	if s.bucket == "" {
		return nil, fmt.Errorf("%w: files bucket not configured", domainErrors.ErrUpstream)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			s.logger.Warn("product file missing", slog.String("bucket", s.bucket), slog.String("key", key))
			return nil, fmt.Errorf("%w: file %s", domainErrors.ErrNotFound, key)
		}
		s.logger.Error("get object failed", slog.String("bucket", s.bucket), slog.String("key", key), slog.Any("error", err))
		return nil, fmt.Errorf("%w: get object: %v", domainErrors.ErrUpstream, err)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return &Object{
		Body:        out.Body,
		Size:        size,
		ContentType: aws.ToString(out.ContentType),
	}, nil
}
