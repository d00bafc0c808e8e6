package textextract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

// ErrNotFound is returned by a Source when the stored artifact is gone.
var ErrNotFound = errors.New("artifact not found")

// Source yields the raw bytes of stored artifacts.
type Source interface {
	Exists(ctx context.Context, path string) (bool, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// LocalSource reads artifacts from a directory on disk. Relative paths are
// resolved against Root.
type LocalSource struct {
	Root string
}

func (s LocalSource) resolve(path string) string {
	if filepath.IsAbs(path) || s.Root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(s.Root, path)
}

func (s LocalSource) Exists(_ context.Context, path string) (bool, error) {
	info, err := os.Stat(s.resolve(path))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (s LocalSource) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// R2Source reads artifacts from a Cloudflare R2 bucket through the S3 API.
// Paths are object keys.
type R2Source struct {
	client *s3.Client
	bucket string
}

func NewR2Source(awsConfig aws.Config, r2 R2Config) *R2Source {
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	})
	return &R2Source{client: client, bucket: r2.Bucket}
}

func (s *R2Source) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to head object")
	}
	return true, nil
}

// ReadFile downloads key, retrying transient network failures.
func (s *R2Source) ReadFile(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := retry.Do(
		func() error {
			b, err := s.download(ctx, key)
			if err != nil {
				return err
			}
			data = b
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.RetryIf(func(err error) bool { return !errors.Is(err, ErrNotFound) }),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	return data, err
}

func (s *R2Source) download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get object")
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, errors.Wrap(err, "failed to read object body")
	}
	return buf.Bytes(), nil
}
