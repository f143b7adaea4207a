package storage

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalImageStore(t *testing.T, cfg Config) (*BlobImageStore, string) {
	dir := t.TempDir()
	cfg.Type = "local"
	cfg.BasePath = dir
	cfg.BaseURL = "/uploads/"
	blobs, err := NewLocalStorage(cfg)
	require.NoError(t, err)
	return NewBlobImageStore(blobs, cfg), dir
}

func TestBlobImageStore_UploadAndDelete(t *testing.T) {
	store, dir := newLocalImageStore(t, Config{Folder: "rentify/properties"})
	ctx := context.Background()

	img, err := store.Upload(ctx, ImageUpload{
		Filename:    "front.PNG",
		ContentType: "image/png",
		Size:        4,
		Reader:      bytes.NewReader([]byte("data")),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.ProviderID, "rentify/properties/"))
	assert.True(t, strings.HasSuffix(img.ProviderID, ".png"))
	assert.Equal(t, "/uploads/"+img.ProviderID, img.URL)

	content, err := os.ReadFile(filepath.Join(dir, img.ProviderID))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	require.NoError(t, store.Delete(ctx, img.ProviderID))
	_, err = os.Stat(filepath.Join(dir, img.ProviderID))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	require.NoError(t, store.Delete(ctx, img.ProviderID))
	require.NoError(t, store.Delete(ctx, ""))
}

func TestBlobImageStore_RejectsLargeOrForeignFiles(t *testing.T) {
	store, _ := newLocalImageStore(t, Config{MaxSize: 3, AllowedTypes: []string{"image/jpeg"}})
	ctx := context.Background()

	_, err := store.Upload(ctx, ImageUpload{ContentType: "image/jpeg", Size: 10, Reader: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, ErrImageTooLarge)

	_, err = store.Upload(ctx, ImageUpload{ContentType: "application/pdf", Size: 1, Reader: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, ErrUnsupportedImageType)
}

func TestBlobImageStore_DownsizesOversizedPhotos(t *testing.T) {
	store, dir := newLocalImageStore(t, Config{MaxDimension: 64, MaxSize: 1 << 20})
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 256, 128))))

	img, err := store.Upload(ctx, ImageUpload{
		Filename:    "wide.png",
		ContentType: "image/png",
		Size:        int64(buf.Len()),
		Reader:      &buf,
	})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, img.ProviderID))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)

	// заявленный Size мог соврать: реальный объем тоже проверяем
	_, err = store.Upload(ctx, ImageUpload{
		ContentType: "image/png",
		Size:        1,
		Reader:      bytes.NewReader(make([]byte, 2<<20)),
	})
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestCheckImage_DefaultsToAnyImage(t *testing.T) {
	assert.NoError(t, CheckImage(ImageUpload{ContentType: "image/avif"}, 0, nil))
	assert.ErrorIs(t, CheckImage(ImageUpload{ContentType: "text/html"}, 0, nil), ErrUnsupportedImageType)
}

func TestLocalStorage_StaysInsideRoot(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir})
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain"))
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)

	ok, err := s.Exists(context.Background(), "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)

	_, err = NewImageStore(Config{Type: "cloudinary"})
	assert.Error(t, err)

	_, err = NewObjectStorage(Config{Type: "cloudflare_r2", Bucket: "b"})
	assert.Error(t, err)
}
