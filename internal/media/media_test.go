package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	storage, err := NewLocalStorage(t.TempDir(), "/media", zap.NewNop())
	require.NoError(t, err)
	return storage
}

func fileFor(t *testing.T, s *LocalStorage, p string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(p, "/media/"), p)
	return filepath.Join(s.Root(), filepath.FromSlash(strings.TrimPrefix(p, "/media/")))
}

type failingStorage struct{ removed []string }

func (f *failingStorage) Put(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", errors.New("disk full")
}

func (f *failingStorage) Remove(_ context.Context, p string) error {
	f.removed = append(f.removed, p)
	return nil
}

func TestImageUpload_FitsWithinBounds(t *testing.T) {
	storage := newLocal(t)
	svc := NewImageService(storage, "images", 80, zap.NewNop())

	p, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 1000, 500)), ImageOptions{
		Folder: "posters", MaxWidth: 500, MaxHeight: 750,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/media/images/posters/"))
	assert.True(t, strings.HasSuffix(p, ".webp"))

	f, err := os.Open(fileFor(t, storage, p))
	require.NoError(t, err)
	defer f.Close()

	cfg, err := webp.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 250, cfg.Height)
}

func TestImageUpload_NeverUpscales(t *testing.T) {
	storage := newLocal(t)
	svc := NewImageService(storage, "images", 80, zap.NewNop())

	p, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 40, 30)), ImageOptions{
		MaxWidth: 500, MaxHeight: 750,
	})
	require.NoError(t, err)

	f, err := os.Open(fileFor(t, storage, p))
	require.NoError(t, err)
	defer f.Close()

	cfg, err := webp.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestImageUpload_InvalidData(t *testing.T) {
	storage := newLocal(t)
	svc := NewImageService(storage, "images", 80, zap.NewNop())

	_, err := svc.Upload(context.Background(), strings.NewReader("not an image"), ImageOptions{})
	require.ErrorIs(t, err, ErrInvalidImage)

	entries, err := os.ReadDir(storage.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImageUpload_StorageFailureIsReturned(t *testing.T) {
	svc := NewImageService(&failingStorage{}, "images", 80, zap.NewNop())

	p, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), ImageOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, p)
}

func TestImageDelete(t *testing.T) {
	storage := newLocal(t)
	svc := NewImageService(storage, "images", 80, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), ""))

	p, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)), ImageOptions{})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), p))

	_, err = os.Stat(fileFor(t, storage, p))
	assert.True(t, os.IsNotExist(err))

	// already gone
	require.NoError(t, svc.Delete(context.Background(), p))
}

func TestVideoUpload(t *testing.T) {
	storage := newLocal(t)
	svc := NewVideoService(storage, "videos", zap.NewNop())

	p, err := svc.Upload(context.Background(), strings.NewReader("#EXTM3U"), "Trailer.M3U8", 7)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/media/videos/"))
	assert.True(t, strings.HasSuffix(p, ".m3u8"))

	data, err := os.ReadFile(fileFor(t, storage, p))
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U", string(data))
}

func TestVideoUpload_UnsupportedFormat(t *testing.T) {
	svc := NewVideoService(newLocal(t), "videos", zap.NewNop())

	for _, name := range []string{"movie.exe", "movie", "poster.png"} {
		_, err := svc.Upload(context.Background(), strings.NewReader("x"), name, 1)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
	assert.True(t, IsVideoFile("a.MKV"))
	assert.False(t, IsVideoFile("a.txt"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	storage := newLocal(t)

	_, err := storage.Put(context.Background(), "../outside.txt", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err, "cleaned keys stay inside the root")

	_, err = storage.Put(context.Background(), "", strings.NewReader("x"), 1, "text/plain")
	require.Error(t, err)

	_, err = storage.Put(context.Background(), "empty.bin", strings.NewReader(""), 0, "")
	require.ErrorIs(t, err, ErrEmptyUpload)
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	storage := newLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.Put(ctx, "videos/a.mp4", strings.NewReader("data"), 4, "video/mp4")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStaticHandler(t *testing.T) {
	storage := newLocal(t)
	p, err := storage.Put(context.Background(), "videos/show.m3u8", strings.NewReader("#EXTM3U"), 7, "")
	require.NoError(t, err)

	h := StaticHandler(storage.Root(), "/media")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.apple.mpegurl", rec.Header().Get("Content-Type"))
	assert.Equal(t, "#EXTM3U", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/videos/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, p, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
