// Package contentstore uploads spooled media files to S3-compatible object
// storage and hands back a durable public URL.
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"threatledger/internal/domain"
)

const keyPrefix = "uploads"

// ObjectPutter is the subset of *s3.Client used by the store.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket string
	Region string
	// PublicBaseURL overrides the virtual-hosted S3 URL, e.g. a CDN origin
	// or a path-style endpoint such as http://localhost:4566/<bucket>.
	PublicBaseURL string
	Logger        *slog.Logger
}

// S3Store implements ports.ContentStore.
type S3Store struct {
	client  ObjectPutter
	bucket  string
	baseURL *url.URL
	logger  *slog.Logger
}

func NewS3Store(client ObjectPutter, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("contentstore: bucket is required")
	}
	base := cfg.PublicBaseURL
	if base == "" {
		if cfg.Region == "" {
			return nil, errors.New("contentstore: region or public base URL is required")
		}
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	baseURL, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil || !baseURL.IsAbs() || baseURL.Host == "" {
		return nil, fmt.Errorf("contentstore: public base URL %q must be absolute", base)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: baseURL, logger: logger}, nil
}

// Upload stores the file under a random key and returns its public URL. The
// local file is removed whether or not the upload succeeded.
func (s *S3Store) Upload(ctx context.Context, localPath string) (string, error) {
	defer s.removeLocal(localPath)

	if localPath == "" {
		return "", fmt.Errorf("%w: no local file", domain.ErrStorageUnavailable)
	}
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", domain.ErrStorageUnavailable, filepath.Base(localPath), err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(localPath))
	key := path.Join(keyPrefix, uuid.NewString()+ext)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("%w: put object: %w", domain.ErrStorageUnavailable, err)
	}

	u := *s.baseURL
	u.Path = path.Join("/", u.Path, key)
	s.logger.DebugContext(ctx, "content uploaded", "bucket", s.bucket, "key", key)
	return u.String(), nil
}

func (s *S3Store) removeLocal(localPath string) {
	if localPath == "" {
		return
	}
	if err := os.Remove(localPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("temp upload not removed", "path", localPath, "error", err)
	}
}
