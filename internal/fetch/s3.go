package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/KinoBytes/filmtally-cli/internal/config"
)

// Mirror reads the dataset from an S3-compatible bucket when Google Drive
// is unreachable. Custom endpoints (MinIO and friends) switch the client
// to path-style addressing.
type Mirror struct {
	client *s3.Client
	bucket string
	log    *zap.Logger
}

func NewMirror(ctx context.Context, cfg *config.Global, log *zap.Logger) (*Mirror, error) {
	if cfg.S3Bucket == "" {
		return nil, &DownloadError{Source: "s3", Err: errors.New("no bucket configured")}
	}
	if log == nil {
		log = zap.NewNop()
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Mirror{client: client, bucket: cfg.S3Bucket, log: log}, nil
}

// Download copies one object into dest, skipping the transfer when dest
// already holds data.
func (m *Mirror) Download(ctx context.Context, key, dest string) (string, error) {
	if key == "" {
		return "", &DownloadError{Source: "s3", Err: errors.New("no object key configured")}
	}
	if fi, err := os.Stat(dest); err == nil && fi.Size() > 0 {
		m.log.Debug("dataset already present", zap.String("path", dest))
		return dest, nil
	}
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", &DownloadError{Source: "s3", ID: key, Err: err}
	}
	defer out.Body.Close()
	if err := writeBody(dest, out.Body); err != nil {
		return "", &DownloadError{Source: "s3", ID: key, Err: err}
	}
	m.log.Info("dataset downloaded from mirror", zap.String("key", key), zap.String("path", dest))
	return dest, nil
}
