package buffer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textrope/internal/engine/rope"
)

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		name string
		want Encoding
	}{
		{"", EncodingUTF8},
		{"UTF-8", EncodingUTF8},
		{"utf16le", EncodingUTF16LE},
		{"UTF_16BE", EncodingUTF16BE},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ParseEncoding("latin1")
	assert.Error(t, err)
}

func TestLoadUTF8StripsBOM(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("\xEF\xBB\xBFhi 😀"), EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "hi 😀", b.Text())
	assert.Equal(t, Offset(5), b.Len())
}

func TestSaveUTF16(t *testing.T) {
	b := NewBufferFromString("h😀")

	var le bytes.Buffer
	require.NoError(t, b.Save(&le, EncodingUTF16LE))
	assert.Equal(t, []byte{0xFF, 0xFE, 0x68, 0x00, 0x3D, 0xD8, 0x00, 0xDE}, le.Bytes())

	var be bytes.Buffer
	require.NoError(t, b.Save(&be, EncodingUTF16BE))
	assert.Equal(t, []byte{0xFE, 0xFF, 0x00, 0x68, 0xD8, 0x3D, 0xDE, 0x00}, be.Bytes())
}

func TestLoadUTF16(t *testing.T) {
	le := []byte{0xFF, 0xFE, 0x68, 0x00, 0x3D, 0xD8, 0x00, 0xDE}
	b, err := NewBufferFromReader(bytes.NewReader(le), EncodingUTF16LE)
	require.NoError(t, err)
	assert.Equal(t, "h😀", b.Text())

	// The BOM wins over the requested byte order.
	b, err = NewBufferFromReader(bytes.NewReader(le), EncodingUTF16BE)
	require.NoError(t, err)
	assert.Equal(t, "h😀", b.Text())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	text := strings.Repeat("line 世界 😀 é\n", 500)

	for _, enc := range []Encoding{EncodingUTF8, EncodingUTF16LE, EncodingUTF16BE} {
		t.Run(enc.String(), func(t *testing.T) {
			src := NewBufferFromString(text, WithLeafUnits(7))

			var out bytes.Buffer
			require.NoError(t, src.Save(&out, enc))

			dst := NewBuffer()
			rev := dst.RevisionID()
			require.NoError(t, dst.Load(&out, enc))
			assert.Equal(t, text, dst.Text())
			assert.NotEqual(t, rev, dst.RevisionID())
		})
	}
}

func TestSaveReplacesLoneSurrogates(t *testing.T) {
	b := NewBuffer()
	b.Restore(&Snapshot{root: rope.NewLeafUnits([]uint16{0xD83D, 'b'}), revisionID: NewRevisionID()})

	var out bytes.Buffer
	require.NoError(t, b.Save(&out, EncodingUTF8))
	assert.Equal(t, "\uFFFDb", out.String())
}
