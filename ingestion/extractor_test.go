package ingestion

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_PlainUTF8(t *testing.T) {
	text, err := ExtractText([]byte("Revenue grew 12% in the third quarter."))

	require.NoError(t, err)
	assert.Equal(t, "Revenue grew 12% in the third quarter.", text)
}

func TestExtractText_InvalidUTF8Replaced(t *testing.T) {
	data := []byte{'h', 'i', 0xff, 0xfe, '!'}

	text, err := ExtractText(data)

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text))
	assert.True(t, strings.HasPrefix(text, "hi"))
	assert.Contains(t, text, string(utf8.RuneError))
}

func TestExtractText_EmptyInput(t *testing.T) {
	_, err := ExtractText([]byte{})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractText_WhitespaceOnly(t *testing.T) {
	_, err := ExtractText([]byte("   \n\t  \n"))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractText_MalformedPDFFallsBack(t *testing.T) {
	// Data carrying the PDF magic but no parseable structure falls back to
	// raw UTF-8 decoding.
	data := []byte("%PDF-1.7 this is not really a pdf body")

	text, err := ExtractText(data)

	require.NoError(t, err)
	assert.Contains(t, text, "not really a pdf")
}
