package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	maxSourceImageSize = 20 << 20
)

var unsafeCacheKey = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// ImageOptimizer downsizes product images to JPEG and caches them on disk
type ImageOptimizer struct {
	cacheDir   string
	httpClient *http.Client
}

// NewImageOptimizer creates an ImageOptimizer caching under cacheDir
func NewImageOptimizer(cacheDir string) *ImageOptimizer {
	return &ImageOptimizer{
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (o *ImageOptimizer) EnsureCacheDir() error {
	if err := os.MkdirAll(o.cacheDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create cache directory")
	}
	return nil
}

// CachePath returns the cache file path for a product image and size
func (o *ImageOptimizer) CachePath(productID string, size string) string {
	filename := fmt.Sprintf("product_%s_%s.jpg", unsafeCacheKey.ReplaceAllString(productID, "_"), size)
	return filepath.Join(o.cacheDir, filename)
}

// Cached returns the cached image of a product, if any
func (o *ImageOptimizer) Cached(productID string, size string) ([]byte, bool) {
	data, err := os.ReadFile(o.CachePath(productID, normalizeSize(size)))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Thumbnail returns the optimized image of a product, from cache when present
func (o *ImageOptimizer) Thumbnail(ctx context.Context, productID string, imageURL string, size string) ([]byte, error) {
	size = normalizeSize(size)
	cachePath := o.CachePath(productID, size)

	if data, ok := o.Cached(productID, size); ok {
		return data, nil
	}

	source, err := o.fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(source, size)
	if err != nil {
		return nil, err
	}

	if err := o.saveToCache(cachePath, optimized); err != nil {
		log.Warnf("⚠️  Failed to cache thumbnail of product %s: %v", productID, err)
	}
	return optimized, nil
}

func (o *ImageOptimizer) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create image request")
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("image source returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceImageSize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image data")
	}
	return data, nil
}

func (o *ImageOptimizer) saveToCache(cachePath string, imageData []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return errors.Wrap(err, "failed to create cache directory")
	}

	// Write then rename so concurrent readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(cachePath), ".thumb-*")
	if err != nil {
		return errors.Wrap(err, "failed to write to cache")
	}
	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to write to cache")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to write to cache")
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to write to cache")
	}

	log.Debugf("✓ Image cached: %s", cachePath)
	return nil
}

func normalizeSize(size string) string {
	switch size {
	case "thumb", "medium":
		return size
	default:
		return "medium"
	}
}

// OptimizeImage converts an image to JPEG and fits it into the size's max dimension
// size: "thumb" or "medium"
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	var maxDim, quality int
	switch size {
	case "thumb":
		maxDim = maxSizeThumb
		quality = qualityThumb
	case "medium":
		maxDim = maxSizeMedium
		quality = qualityMedium
	default:
		maxDim = maxSizeMedium
		quality = qualityMedium
		log.Warnf("⚠️  Unknown size '%s', defaulting to medium", size)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		log.Debugf("🔄 Resizing image: %dx%d -> max %d", bounds.Dx(), bounds.Dy(), maxDim)
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, errors.Wrap(err, "failed to encode to JPEG")
	}
	return buf.Bytes(), nil
}
