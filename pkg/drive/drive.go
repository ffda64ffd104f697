// Package drive hosts generated export documents on S3-compatible storage
// and hands out view-only share links.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stageflow/config"
)

// S3Host stores documents in a bucket and returns presigned GET links, so
// anyone holding the link can view the document but nothing else.
type S3Host struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	linkTTL time.Duration
	logger  *zap.Logger
}

// NewS3Host builds the S3 clients from storage config.
func NewS3Host(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*S3Host, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Host{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		linkTTL: cfg.LinkTTL,
		logger:  logger,
	}, nil
}

func storageKey(name string) string {
	d := time.Now()
	return fmt.Sprintf("exports/%d/%02d/%v/%s", d.Year(), d.Month(), uuid.New(), name)
}

// Upload stores the document and returns a view-only share link.
func (h *S3Host) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := storageKey(name)

	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &h.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}

	req, err := h.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &h.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(h.linkTTL))
	if err != nil {
		return "", fmt.Errorf("presigning link for %s: %w", name, err)
	}

	h.logger.Info("export document hosted",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)

	return req.URL, nil
}
