package util

import (
	"mime"
	"strings"
)

// AttachmentDisposition builds a Content-Disposition header that makes
// browsers download the response under filename. Non-ASCII names are encoded
// per RFC 2231.
func AttachmentDisposition(filename string) string {
	name := strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, filename)
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
