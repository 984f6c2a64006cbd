package objectstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-api/config"
)

func TestLocalStorePutDelete(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root, "/media/")
	ctx := context.Background()
	key := "uploads/recipe/abc.png"

	require.NoError(t, s.Put(ctx, key, bytes.NewReader([]byte("data")), 4, "image/png"))
	b, err := os.ReadFile(filepath.Join(root, "uploads", "recipe", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
	assert.Equal(t, "/media/uploads/recipe/abc.png", s.URL(key))

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, "uploads", "recipe", "abc.png"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Delete(ctx, key), "deleting twice is not an error")
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	s := NewLocalStore(t.TempDir(), "/media")
	err := s.Put(context.Background(), "../escape.png", bytes.NewReader(nil), 0, "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

type fakeS3 struct {
	puts    map[string][]byte
	deleted []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StoreUsesClient(t *testing.T) {
	fake := &fakeS3{puts: map[string][]byte{}}
	s := &S3Store{client: fake, opts: S3Options{Bucket: "media", Region: "eu-west-1"}}
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "uploads/recipe/x.jpg", bytes.NewReader([]byte("jpg")), 3, "image/jpeg"))
	require.NoError(t, s.Delete(ctx, "uploads/recipe/x.jpg"))

	assert.Equal(t, []byte("jpg"), fake.puts["uploads/recipe/x.jpg"])
	assert.Equal(t, []string{"uploads/recipe/x.jpg"}, fake.deleted)
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/uploads/recipe/x.jpg", s.URL("uploads/recipe/x.jpg"))
}

func TestS3StoreURLVariants(t *testing.T) {
	s := &S3Store{opts: S3Options{Bucket: "media", Endpoint: "http://minio:9000/"}}
	assert.Equal(t, "http://minio:9000/media/k.png", s.URL("k.png"))

	s.opts.PublicURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/k.png", s.URL("k.png"))
}

func TestNewSelectsStore(t *testing.T) {
	st, err := New(context.Background(), &config.Config{ImageStore: "local", MediaRoot: t.TempDir(), MediaURL: "/media"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, st)

	_, err = New(context.Background(), &config.Config{ImageStore: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{ImageStore: "gcs"})
	assert.Error(t, err)
}
