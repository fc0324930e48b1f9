package ingestion

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv/v2"
)

// pdfMagic is the signature at the start of every PDF file.
var pdfMagic = []byte("%PDF-")

// ExtractText extracts plain text from uploaded document bytes.
//
// PDF data is parsed with docconv; page text arrives newline-joined in the
// converter's output. Anything else, and any PDF that fails to parse, is
// decoded as UTF-8 with invalid sequences replaced. Returns ErrNoText when
// the result has no non-whitespace content.
func ExtractText(data []byte) (string, error) {
	var text string

	if bytes.HasPrefix(data, pdfMagic) {
		res, err := docconv.Convert(bytes.NewReader(data), "application/pdf", true)
		if err == nil && res != nil {
			text = res.Body
		}
	}

	if strings.TrimSpace(text) == "" {
		text = decodeUTF8(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %d input bytes", ErrNoText, len(data))
	}
	return text, nil
}

// decodeUTF8 decodes data as UTF-8, replacing invalid sequences with the
// Unicode replacement character.
func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		b.WriteRune(r)
		data = data[size:]
	}
	return b.String()
}
