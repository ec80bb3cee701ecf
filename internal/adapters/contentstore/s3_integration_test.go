//go:build integration

package contentstore

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startLocalStack(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "localstack/localstack:3.8",
			ExposedPorts: []string{"4566/tcp"},
			Env:          map[string]string{"SERVICES": "s3"},
			WaitingFor: wait.ForHTTP("/_localstack/health").
				WithPort("4566/tcp").
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	endpoint, err := ctr.PortEndpoint(ctx, "4566/tcp", "http")
	require.NoError(t, err)
	return endpoint
}

func TestUploadToLocalStack(t *testing.T) {
	endpoint := startLocalStack(t)
	ctx := context.Background()

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String("evidence")})
	require.NoError(t, err)

	store, err := NewS3Store(client, Config{Bucket: "evidence", PublicBaseURL: endpoint + "/evidence"})
	require.NoError(t, err)

	local := tempUpload(t, "upload-1.png", "png-bytes")
	u, err := store.Upload(ctx, local)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(u, endpoint+"/evidence/uploads/"), u)

	key := strings.TrimPrefix(u, endpoint+"/evidence/")
	obj, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String("evidence"), Key: aws.String(key)})
	require.NoError(t, err)
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", aws.ToString(obj.ContentType))

	_, statErr := os.Stat(local)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}
