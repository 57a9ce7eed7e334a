package feed

import (
	"log/slog"

	"github.com/gogs/chardet"
	"golang.org/x/net/html/charset"
)

// ToUTF8 converts an HTML document to UTF-8. The encoding comes from a BOM,
// the Content-Type charset or a <meta> declaration, in that order. Pages that
// declare nothing and are not valid UTF-8 are sniffed with chardet. Data that
// cannot be decoded is returned unchanged.
func ToUTF8(data []byte, contentType string) ([]byte, string) {
	enc, name, certain := charset.DetermineEncoding(data, contentType)

	if !certain && name == "windows-1252" {
		if guess, err := chardet.NewHtmlDetector().DetectBest(data); err == nil {
			if e, n := charset.Lookup(guess.Charset); e != nil {
				enc, name = e, n
			}
		}
	}

	if name == "utf-8" {
		return data, name
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		slog.Debug("Failed to decode page, using raw bytes", "charset", name, "error", err)
		return data, name
	}
	return decoded, name
}
