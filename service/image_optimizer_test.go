package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOptimizeImageFitsMaxDimension(t *testing.T) {
	out, err := OptimizeImage(testPNG(t, 1200, 600), "thumb")
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 150, cfg.Height)
}

func TestOptimizeImageRejectsGarbage(t *testing.T) {
	_, err := OptimizeImage([]byte("not an image"), "thumb")
	assert.Error(t, err)
}

func TestThumbnailUsesCache(t *testing.T) {
	hits := 0
	source := testPNG(t, 100, 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write(source)
	}))
	defer server.Close()

	optimizer := NewImageOptimizer(t.TempDir())
	require.NoError(t, optimizer.EnsureCacheDir())

	first, err := optimizer.Thumbnail(context.Background(), "201", server.URL+"/wax.png", "thumb")
	require.NoError(t, err)
	second, err := optimizer.Thumbnail(context.Background(), "201", server.URL+"/wax.png", "thumb")
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.Equal(t, first, second)
	_, err = os.Stat(optimizer.CachePath("201", "thumb"))
	assert.NoError(t, err)
}

func TestCachePathSanitizesID(t *testing.T) {
	optimizer := NewImageOptimizer("cache")
	path := optimizer.CachePath("../../etc", "medium")
	assert.Equal(t, "cache", filepath.Dir(path))
	assert.NotContains(t, path, "..")
}
