// Package storage talks to the Cloudflare R2 bucket through the S3 API.
// The rest of the application stores only the opaque object paths returned
// by Upload; presigned URLs are minted at the response boundary.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ObjectStorage is what handlers depend on; Client is the R2 implementation.
type ObjectStorage interface {
	Upload(ctx context.Context, r io.Reader, folder, filename, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
	ResolveURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	bucket  string
}

var _ ObjectStorage = (*Client)(nil)

// Options carries the R2 connection settings.
type Options struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Bucket    string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	})

	return &Client{
		s3:      client,
		presign: s3.NewPresignClient(client),
		bucket:  opts.Bucket,
	}, nil
}

// Upload stores the object under folder/<uuid><ext> and returns that path.
func (c *Client) Upload(ctx context.Context, r io.Reader, folder, filename, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	path := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(path),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return path, nil
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// ResolveURL mints a time-limited GET URL for a stored path.
func (c *Client) ResolveURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
