package artifacts

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/agrisight/paddy/internal/config"
)

// S3Store writes artifacts to an S3-compatible bucket (MinIO locally).
type S3Store struct {
	client  *s3.Client
	cfg     *config.S3Config
	baseURL string
	log     *zap.Logger
}

func NewS3Store(ctx context.Context, cfg *config.S3Config, log *zap.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
	}

	return &S3Store{
		client:  client,
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		s.log.Error("Failed to upload artifact",
			zap.String("key", key),
			zap.Error(err))
		return "", fmt.Errorf("failed to upload artifact %s: %w", key, err)
	}

	s.log.Info("Artifact uploaded",
		zap.String("key", key),
		zap.Int64("size", size))

	return s.baseURL + "/" + key, nil
}
