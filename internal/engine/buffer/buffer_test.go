package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textrope/internal/engine/rope"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	assert.True(t, b.IsEmpty())
	assert.Equal(t, Offset(0), b.Len())
	assert.Equal(t, "", b.Text())
}

func TestNewBufferFromString(t *testing.T) {
	text := "Hello, 世界 😀"
	b := NewBufferFromString(text)

	assert.Equal(t, text, b.Text())
	assert.Equal(t, TextLen(text), b.Len())
	assert.Equal(t, Offset(12), b.Len())
}

func TestNewBufferFromStringUsesLeafUnits(t *testing.T) {
	b := NewBufferFromString("abcdefghij", WithLeafUnits(2))

	stats := b.Stats()
	assert.Equal(t, 5, stats.Leaves)
	assert.Equal(t, uint8(3), stats.Depth)
	assert.Equal(t, "abcdefghij", b.Text())
}

func TestBufferInsert(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Insert(5, ",")
	require.NoError(t, err)
	assert.Equal(t, Offset(6), end)
	assert.Equal(t, "Hello, World", b.Text())

	end, err = b.Insert(b.Len(), "!😀")
	require.NoError(t, err)
	assert.Equal(t, Offset(15), end)
	assert.Equal(t, "Hello, World!😀", b.Text())
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("abc")

	_, err := b.Insert(-1, "x")
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	_, err = b.Insert(4, "x")
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	assert.Equal(t, "abc", b.Text())
}

func TestBufferRejectsSurrogateSplits(t *testing.T) {
	b := NewBufferFromString("a😀b")
	rev := b.RevisionID()

	_, err := b.Insert(2, "x")
	assert.ErrorIs(t, err, ErrSplitsRune)

	err = b.Delete(1, 2)
	assert.ErrorIs(t, err, ErrSplitsRune)

	_, err = b.Replace(2, 4, "y")
	assert.ErrorIs(t, err, ErrSplitsRune)

	assert.Equal(t, "a😀b", b.Text())
	assert.Equal(t, rev, b.RevisionID(), "rejected edits must not create a revision")

	require.NoError(t, b.Delete(1, 3))
	assert.Equal(t, "ab", b.Text())
}

func TestBufferDelete(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end Offset
		want       string
	}{
		{"middle", "Hello, World", 5, 7, "HelloWorld"},
		{"prefix", "Hello", 0, 2, "llo"},
		{"suffix", "Hello", 3, 5, "Hel"},
		{"all", "Hello", 0, 5, ""},
		{"empty range", "Hello", 2, 2, "Hello"},
		{"emoji", "x😀y", 1, 3, "xy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.text)
			require.NoError(t, b.Delete(tt.start, tt.end))
			assert.Equal(t, tt.want, b.Text())
		})
	}
}

func TestBufferDeleteInvalidRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	assert.ErrorIs(t, b.Delete(3, 2), ErrRangeInvalid)
	assert.ErrorIs(t, b.Delete(-1, 2), ErrRangeInvalid)
	assert.ErrorIs(t, b.Delete(2, 6), ErrRangeInvalid)
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Replace(6, 11, "Gophers")
	require.NoError(t, err)
	assert.Equal(t, Offset(13), end)
	assert.Equal(t, "Hello Gophers", b.Text())
}

func TestBufferTextRange(t *testing.T) {
	b := NewBufferFromString("Hello, 世界!")

	got, err := b.TextRange(7, 9)
	require.NoError(t, err)
	assert.Equal(t, "世界", got)

	_, err = b.TextRange(5, 20)
	assert.ErrorIs(t, err, ErrRangeInvalid)
}

func TestBufferRuneAt(t *testing.T) {
	b := NewBufferFromString("a😀")

	r, size, err := b.RuneAt(1)
	require.NoError(t, err)
	assert.Equal(t, '😀', r)
	assert.Equal(t, 2, size)

	_, _, err = b.RuneAt(2)
	assert.ErrorIs(t, err, rope.ErrMidRune)

	_, _, err = b.RuneAt(3)
	assert.ErrorIs(t, err, rope.ErrIndexOutOfRange)
}

func TestBufferApplyEdit(t *testing.T) {
	b := NewBufferFromString("Hello World")

	result, err := b.ApplyEdit(NewEdit(NewRange(0, 5), "Goodbye"))
	require.NoError(t, err)

	assert.Equal(t, "Goodbye World", b.Text())
	assert.Equal(t, "Hello", result.OldText)
	assert.Equal(t, NewRange(0, 7), result.NewRange)
	assert.Equal(t, Offset(2), result.Delta)
}

func TestBufferApplyEdits(t *testing.T) {
	b := NewBufferFromString("one two three")

	err := b.ApplyEdits([]Edit{
		NewEdit(NewRange(8, 13), "3"),
		NewEdit(NewRange(4, 7), "2"),
		NewEdit(NewRange(0, 3), "1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1 2 3", b.Text())
}

func TestBufferApplyEditsOverlap(t *testing.T) {
	b := NewBufferFromString("one two three")
	rev := b.RevisionID()

	err := b.ApplyEdits([]Edit{
		NewEdit(NewRange(0, 3), "1"),
		NewEdit(NewRange(4, 7), "2"),
	})
	assert.ErrorIs(t, err, ErrEditsOverlap)
	assert.Equal(t, "one two three", b.Text())
	assert.Equal(t, rev, b.RevisionID())
}

func TestBufferRevisionChanges(t *testing.T) {
	b := NewBuffer()
	r1 := b.RevisionID()

	_, err := b.Insert(0, "x")
	require.NoError(t, err)
	r2 := b.RevisionID()

	assert.NotEqual(t, r1, r2)
	assert.NotEmpty(t, r2.String())
}

func TestBufferStaysBalanced(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < 1000; i++ {
		_, err := b.Insert(b.Len(), "x")
		require.NoError(t, err)
	}

	stats := b.Stats()
	assert.Equal(t, int64(1000), stats.Length)
	assert.LessOrEqual(t, int(stats.Depth), 20)
}

func TestBufferLineEndingNormalization(t *testing.T) {
	b := NewBufferFromString("a\r\nb\rc", WithLF())
	assert.Equal(t, "a\nb\nc", b.Text())

	c := NewBuffer(WithCRLF())
	end, err := c.Insert(0, "x\ny")
	require.NoError(t, err)
	assert.Equal(t, "x\r\ny", c.Text())
	assert.Equal(t, Offset(4), end)

	d := NewBufferFromString("keep\r\nas is\n")
	assert.Equal(t, "keep\r\nas is\n", d.Text())
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"no newline", LineEndingAsIs},
		{"a\nb\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\rc\n", LineEndingCR},
		{"a\r\nb\nc\n", LineEndingLF},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLineEnding(tt.text), "text %q", tt.text)
	}
}

func TestBufferConcurrentAccess(t *testing.T) {
	b := NewBuffer()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := b.Insert(0, "ab")
				assert.NoError(t, err)
				snap := b.Snapshot()
				assert.Equal(t, TextLen(snap.Text()), snap.Len())
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, Offset(1600), b.Len())
	assert.LessOrEqual(t, int(b.Root().Depth()), 20)
}

func TestTextLen(t *testing.T) {
	assert.Equal(t, Offset(0), TextLen(""))
	assert.Equal(t, Offset(3), TextLen("abc"))
	assert.Equal(t, Offset(2), TextLen("世界"))
	assert.Equal(t, Offset(2), TextLen("😀"))
}

func TestRange(t *testing.T) {
	r := NewRange(2, 5)

	assert.Equal(t, "[2:5)", r.String())
	assert.Equal(t, Offset(3), r.Len())
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(5))
	assert.True(t, r.Overlaps(NewRange(4, 8)))
	assert.False(t, r.Overlaps(NewRange(5, 8)))
	assert.Equal(t, NewRange(4, 7), r.Shift(2))
	assert.False(t, NewRange(3, 1).IsValid())
}

func TestEditKinds(t *testing.T) {
	assert.True(t, NewInsert(1, "x").IsInsert())
	assert.True(t, NewDelete(1, 3).IsDelete())
	assert.True(t, NewInsert(1, "").IsNoOp())
	assert.Equal(t, Offset(1), NewEdit(NewRange(0, 1), "😀").Delta())
	assert.Equal(t, `Insert(1, "x")`, NewInsert(1, "x").String())
}

func TestParseLineEnding(t *testing.T) {
	for name, want := range map[string]LineEnding{
		"":      LineEndingAsIs,
		"as-is": LineEndingAsIs,
		"LF":    LineEndingLF,
		"crlf":  LineEndingCRLF,
		"cr":    LineEndingCR,
	} {
		got, err := ParseLineEnding(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLineEnding("lfcr")
	assert.Error(t, err)
}
