package objectclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	cfg "github.com/maker5587/chatbot/internal/config"
	"github.com/maker5587/chatbot/internal/core"
)

var _ core.ImageMirror = (*S3Mirror)(nil)

// Thumbnails larger than this are left hotlinked rather than mirrored.
const maxImageBytes = 10 << 20

type S3Mirror struct {
	client *s3.Client
	http   *http.Client
	region string
	bucket string
}

func NewS3Mirror(ctx context.Context, cfg *cfg.Config) (*S3Mirror, error) {
	if cfg.AwsAccessKey == "" || cfg.AwsSecretKey == "" {
		return nil, fmt.Errorf("AWS credentials not set")
	}
	if cfg.AwsRegion == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("S3 bucket name not set")
	}

	awsCfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(cfg.AwsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AwsAccessKey, cfg.AwsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	log.Println("Connected to AWS S3 successfully")

	return &S3Mirror{
		client: client,
		http:   &http.Client{Timeout: 30 * time.Second},
		region: cfg.AwsRegion,
		bucket: cfg.BucketName,
	}, nil
}

// Mirror downloads imageURL and re-uploads it under thumbnails/, returning
// the bucket URL. The caller keeps the original URL on failure.
func (m *S3Mirror) Mirror(ctx context.Context, imageURL string) (string, error) {
	data, contentType, err := m.download(ctx, imageURL)
	if err != nil {
		return "", err
	}

	key := "thumbnails/" + uuid.NewString() + extensionFor(imageURL)
	return m.upload(ctx, key, data, contentType)
}

func (m *S3Mirror) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (m *S3Mirror) upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	uploader := manager.NewUploader(m.client)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if _, err := uploader.Upload(ctxUpload, input); err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.bucket, m.region, key), nil
}

func extensionFor(imageURL string) string {
	ext := path.Ext(imageURL)
	if i := strings.IndexByte(ext, '?'); i >= 0 {
		ext = ext[:i]
	}
	if len(ext) > 5 {
		return ""
	}
	return ext
}
