package imagepkg

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/webp"

	"github.com/youruser/coverapp/internal/profile"
)

const (
	DefaultMaxPhotoBytes = 5 << 20
	DefaultPhotoCache    = 32
)

var (
	ErrPhotoTooLarge    = errors.New("photo exceeds size limit")
	ErrUnsupportedPhoto = errors.New("unsupported photo type")
)

var photoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/webp": true,
}

// ReadPhoto reads at most maxBytes from r. A longer stream is rejected rather
// than truncated.
func ReadPhoto(r io.Reader, maxBytes int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrPhotoTooLarge, maxBytes)
	}
	return b, nil
}

// DecodePhoto sniffs and decodes raw photo bytes, honoring EXIF orientation.
func DecodePhoto(b []byte, maxBytes int64) (image.Image, error) {
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrPhotoTooLarge, len(b))
	}
	if ct := http.DetectContentType(b); !photoTypes[ct] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPhoto, ct)
	}
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPhoto, err)
	}
	return img, nil
}

// PhotoCache memoizes decoded photos by content hash, so re-rendering the same
// data URI on every preview does not decode it again.
type PhotoCache struct {
	maxBytes int64
	cache    *lru.Cache[[sha256.Size]byte, image.Image]
}

func NewPhotoCache(size int, maxBytes int64) (*PhotoCache, error) {
	if size <= 0 {
		size = DefaultPhotoCache
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}
	c, err := lru.New[[sha256.Size]byte, image.Image](size)
	if err != nil {
		return nil, fmt.Errorf("create photo cache: %w", err)
	}
	return &PhotoCache{maxBytes: maxBytes, cache: c}, nil
}

func (c *PhotoCache) MaxBytes() int64 {
	return c.maxBytes
}

func (c *PhotoCache) Decode(b []byte) (image.Image, error) {
	key := sha256.Sum256(b)
	if img, ok := c.cache.Get(key); ok {
		return img, nil
	}
	img, err := DecodePhoto(b, c.maxBytes)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, img)
	return img, nil
}

// DecodeDataURI decodes a photo stored on a profile. An empty uri is no photo.
func (c *PhotoCache) DecodeDataURI(uri string) (image.Image, error) {
	if uri == "" {
		return nil, nil
	}
	_, b, err := profile.DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	return c.Decode(b)
}

func (c *PhotoCache) Len() int {
	return c.cache.Len()
}
