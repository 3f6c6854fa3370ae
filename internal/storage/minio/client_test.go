package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	policy    string
	policyErr error

	putInfo minioLib.UploadInfo
	putErr  error
	putKey  string
	putSize int64
	putOpts minioLib.PutObjectOptions
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}
func (f *fakeMinio) SetBucketPolicy(_ context.Context, _ string, policy string) error {
	f.policy = policy
	return f.policyErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, _ io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	f.putKey = key
	f.putSize = size
	f.putOpts = opts
	return f.putInfo, f.putErr
}
func TestNewClientWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b", "http://localhost:9000/")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "b", c.bucket)
	assert.Equal(t, "http://localhost:9000", c.publicURL)
	assert.False(t, api.madeBucket)
	assert.Empty(t, api.policy)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(ctx, api, "bucket", "http://localhost:9000")
	require.NoError(t, err)
	assert.Equal(t, "bucket", c.bucket)
	assert.True(t, api.madeBucket)
	assert.Contains(t, api.policy, "arn:aws:s3:::bucket/*")
	assert.Contains(t, api.policy, "s3:GetObject")
}

func TestNewClientWithAPI_Errors(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeMinio
	}{
		{name: "bucket exists error", api: &fakeMinio{bucketExistsErr: errors.New("boom")}},
		{name: "make bucket error", api: &fakeMinio{makeBucketErr: errors.New("fail")}},
		{name: "policy error", api: &fakeMinio{policyErr: errors.New("denied")}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClientWithAPI(context.Background(), tt.api, "bucket", "")
			assert.Nil(t, c)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "failed to ensure bucket exists")
		})
	}
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, "posts/u/k.png", bytes.NewReader([]byte("data")), 4, "image/png")
		assert.NoError(t, err)
		assert.Equal(t, "posts/u/k.png", api.putKey)
		assert.Equal(t, int64(4), api.putSize)
		assert.Equal(t, "image/png", api.putOpts.ContentType)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{putErr: errors.New("put-fail")}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, "k", bytes.NewReader([]byte("data")), 4, "image/png")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_URL(t *testing.T) {
	c := &Client{bucket: "memoria-images", publicURL: "https://cdn.example.com"}
	assert.Equal(t,
		"https://cdn.example.com/memoria-images/posts/42/a%20b.png",
		c.URL("posts/42/a b.png"),
	)
}
