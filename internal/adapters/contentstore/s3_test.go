package contentstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatledger/internal/domain"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func tempUpload(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestUploadRemovesLocalFileOnSuccess(t *testing.T) {
	putter := &fakePutter{}
	store, err := NewS3Store(putter, Config{Bucket: "evidence", Region: "eu-west-1"})
	require.NoError(t, err)

	local := tempUpload(t, "upload-123.PNG", "png-bytes")
	u, err := store.Upload(context.Background(), local)
	require.NoError(t, err)

	key := aws.ToString(putter.input.Key)
	assert.Equal(t, "evidence", aws.ToString(putter.input.Bucket))
	assert.True(t, strings.HasPrefix(key, "uploads/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "png-bytes", string(putter.body))
	assert.Equal(t, "https://evidence.s3.eu-west-1.amazonaws.com/"+key, u)

	_, statErr := os.Stat(local)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "temp file must be removed")
}

func TestUploadRemovesLocalFileOnFailure(t *testing.T) {
	putter := &fakePutter{err: errors.New("AccessDenied")}
	store, err := NewS3Store(putter, Config{Bucket: "evidence", Region: "eu-west-1"})
	require.NoError(t, err)

	local := tempUpload(t, "upload-1.jpg", "jpg")
	_, err = store.Upload(context.Background(), local)
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, statErr := os.Stat(local)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "temp file must be removed")
}

func TestUploadMissingFile(t *testing.T) {
	store, err := NewS3Store(&fakePutter{}, Config{Bucket: "b", Region: "us-east-1"})
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), filepath.Join(t.TempDir(), "gone.png"))
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = store.Upload(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestUploadPublicBaseURL(t *testing.T) {
	putter := &fakePutter{}
	store, err := NewS3Store(putter, Config{Bucket: "evidence", PublicBaseURL: "http://localhost:4566/evidence/"})
	require.NoError(t, err)

	u, err := store.Upload(context.Background(), tempUpload(t, "a.gif", "gif"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566/evidence/"+aws.ToString(putter.input.Key), u)
}

func TestNewS3StoreValidation(t *testing.T) {
	_, err := NewS3Store(&fakePutter{}, Config{Region: "us-east-1"})
	assert.Error(t, err, "bucket required")

	_, err = NewS3Store(&fakePutter{}, Config{Bucket: "b"})
	assert.Error(t, err, "region or base url required")

	_, err = NewS3Store(&fakePutter{}, Config{Bucket: "b", PublicBaseURL: "/relative"})
	assert.Error(t, err, "base url must be absolute")
}
