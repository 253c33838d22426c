package imagepkg

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/youruser/coverapp/internal/social"
	"github.com/youruser/coverapp/internal/theme"
)

const (
	MinQRSize     = 64
	MaxQRSize     = 1024
	DefaultQRSize = 256
)

var ErrEmptyHandle = errors.New("handle is empty")

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, clampQR(size))
}

// SocialQR encodes the profile link of a social entry, drawn in the
// platform's brand color.
func SocialQR(platformID, handle string, size int) ([]byte, error) {
	pl := social.Lookup(platformID)
	link := pl.ProfileURL(handle)
	if link == "" {
		return nil, ErrEmptyHandle
	}
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	if fg, err := theme.ParseHex(pl.Color); err == nil {
		q.ForegroundColor = fg
	}
	return q.PNG(clampQR(size))
}

func clampQR(size int) int {
	if size <= 0 {
		return DefaultQRSize
	}
	return min(max(size, MinQRSize), MaxQRSize)
}
