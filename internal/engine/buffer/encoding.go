package buffer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/textrope/internal/engine/rope"
)

// Encoding is the on-disk text encoding used by Load and Save.
type Encoding uint8

const (
	EncodingUTF8    Encoding = iota // UTF-8, a leading BOM is dropped on load
	EncodingUTF16LE                 // UTF-16 little endian with BOM
	EncodingUTF16BE                 // UTF-16 big endian with BOM
)

// saveChunk is the number of UTF-8 bytes Save hands to the encoder at once.
const saveChunk = 32 * 1024

// String returns the canonical name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

// ParseEncoding parses an encoding name as accepted by the CLI.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-16le", "utf16le", "utf-16":
		return EncodingUTF16LE, nil
	case "utf-16be", "utf16be":
		return EncodingUTF16BE, nil
	default:
		return EncodingUTF8, fmt.Errorf("unknown encoding %q", name)
	}
}

func (e Encoding) decoder() *encoding.Decoder {
	switch e {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	default:
		return unicode.UTF8BOM.NewDecoder()
	}
}

func (e Encoding) encoder() *encoding.Encoder {
	switch e {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	default:
		return unicode.UTF8.NewEncoder()
	}
}

// NewBufferFromReader creates a buffer from text read from r in the given
// encoding.
func NewBufferFromReader(r io.Reader, enc Encoding, opts ...Option) (*Buffer, error) {
	b := NewBuffer(opts...)
	if err := b.Load(r, enc); err != nil {
		return nil, err
	}
	return b, nil
}

// Load replaces the buffer content with text read from r in the given
// encoding. Invalid input sequences become U+FFFD.
func (b *Buffer) Load(r io.Reader, enc Encoding) error {
	// Read all content first so CRLF sequences split across reads are
	// normalized correctly.
	data, err := io.ReadAll(transform.NewReader(r, enc.decoder()))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", enc, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.root = b.build(b.normalizeLineEndings(string(data)))
	b.revisionID = NewRevisionID()
	b.logger.Debug("buffer load",
		"encoding", enc.String(),
		"bytes", len(data),
		"len", rope.CalcTotalLength(b.root),
	)
	return nil
}

// Save writes the buffer content to w in the given encoding. Unpaired
// surrogates are written as U+FFFD.
func (b *Buffer) Save(w io.Writer, enc Encoding) error {
	return b.Snapshot().Save(w, enc)
}

// Save writes the snapshot content to w in the given encoding. Unpaired
// surrogates are written as U+FFFD.
func (s *Snapshot) Save(w io.Writer, enc Encoding) error {
	tw := transform.NewWriter(w, enc.encoder())
	chunk := make([]byte, 0, saveChunk)
	for r := range rope.Runes(s.root) {
		chunk = utf8.AppendRune(chunk, r)
		if len(chunk) >= saveChunk-utf8.UTFMax {
			if _, err := tw.Write(chunk); err != nil {
				return fmt.Errorf("encoding %s: %w", enc, err)
			}
			chunk = chunk[:0]
		}
	}
	if _, err := tw.Write(chunk); err != nil {
		return fmt.Errorf("encoding %s: %w", enc, err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("encoding %s: %w", enc, err)
	}
	return nil
}
