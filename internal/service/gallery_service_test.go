package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"hopebridge_backend/internal/config"
	"hopebridge_backend/internal/model"
	"hopebridge_backend/internal/repository"
	"hopebridge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes 最小可嗅探的 PNG 文件头
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func newGalleryService(t *testing.T) (*GalleryService, string) {
	t.Helper()
	db := setupTestDB(t)
	dir := t.TempDir()
	storage := &StorageService{Provider: &LocalStorageProvider{
		Config: &config.StorageConfig{LocalPath: dir},
	}}
	return NewGalleryService(repository.NewGalleryRepository(db), storage), dir
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestUploadImage(t *testing.T) {
	svc, dir := newGalleryService(t)

	item, err := svc.UploadImage(context.Background(), 1, "Open day", "events", makeFileHeader(t, "photo.png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, model.MediaImage, item.Kind)
	assert.Equal(t, "image/png", item.ContentType)
	assert.Equal(t, "events", item.Album)

	// 对象确实写进了本地存储
	_, err = os.Stat(filepath.Join(dir, objectNameFromURL(item.URL)))
	assert.NoError(t, err)
}

func TestUploadImageRejectsExtension(t *testing.T) {
	svc, _ := newGalleryService(t)

	_, err := svc.UploadImage(context.Background(), 1, "x", "", makeFileHeader(t, "payload.exe", pngBytes))
	assert.ErrorIs(t, err, util.ErrInvalidImageExt)
}

func TestUploadImageRejectsSniffedMime(t *testing.T) {
	svc, _ := newGalleryService(t)

	// 后缀合法但内容不是图片
	_, err := svc.UploadImage(context.Background(), 1, "x", "", makeFileHeader(t, "fake.png", []byte("just some text")))
	assert.ErrorIs(t, err, util.ErrInvalidImageExt)
}

func TestDeleteRemovesStoredObject(t *testing.T) {
	svc, dir := newGalleryService(t)

	item, err := svc.UploadImage(context.Background(), 1, "Open day", "events", makeFileHeader(t, "photo.png", pngBytes))
	require.NoError(t, err)
	stored := filepath.Join(dir, objectNameFromURL(item.URL))

	require.NoError(t, svc.Delete(context.Background(), item.ID))

	_, err = svc.Get(item.ID)
	assert.ErrorIs(t, err, util.ErrGalleryItemNotFound)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, svc.Delete(context.Background(), 9999), util.ErrGalleryItemNotFound)
}

func TestObjectNameFromURL(t *testing.T) {
	cases := map[string]string{
		"/uploads/gallery/a.png":           "gallery/a.png",
		"/hopebridge/gallery/thumbs/a.jpg": "gallery/thumbs/a.jpg",
		"plain.png":                        "plain.png",
	}
	for in, want := range cases {
		assert.Equal(t, want, objectNameFromURL(in))
	}
}
