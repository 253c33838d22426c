package profile

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var ErrMalformedDataURI = errors.New("malformed data URI")

// EncodeDataURI renders raw file bytes the way a browser file reader would.
func EncodeDataURI(b []byte) string {
	mime := http.DetectContentType(b)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}

// DecodeDataURI returns the declared media type and payload of a base64 data URI.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrMalformedDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrMalformedDataURI
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, ErrMalformedDataURI
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrMalformedDataURI, err)
	}
	return mime, b, nil
}
