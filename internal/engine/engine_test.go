package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textrope/internal/engine/buffer"
	"github.com/dshills/textrope/internal/engine/history"
)

func TestNew(t *testing.T) {
	e := New()
	assert.True(t, e.IsEmpty())
	assert.False(t, e.CanUndo())

	e = New(WithContent("Hello"))
	assert.Equal(t, "Hello", e.Text())
	assert.Equal(t, Offset(5), e.Len())
}

func TestNewFromReader(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("a\r\nb"), buffer.EncodingUTF8, WithLineEnding(buffer.LineEndingLF))
	require.NoError(t, err)
	assert.Equal(t, "a\nb", e.Text())
}

func TestEditsAreUndoable(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	_, err := e.Replace(7, 12, "Go")
	require.NoError(t, err)
	assert.Equal(t, "Hello, Go!", e.Text())

	end, err := e.Insert(0, "> ")
	require.NoError(t, err)
	assert.Equal(t, Offset(2), end)

	require.NoError(t, e.Delete(e.Len()-1, e.Len()))
	assert.Equal(t, "> Hello, Go", e.Text())
	assert.Equal(t, 3, e.UndoCount())

	require.NoError(t, e.Undo())
	require.NoError(t, e.Undo())
	require.NoError(t, e.Undo())
	assert.Equal(t, "Hello, World!", e.Text())
	assert.ErrorIs(t, e.Undo(), history.ErrNothingToUndo)

	require.NoError(t, e.Redo())
	assert.Equal(t, "Hello, Go!", e.Text())
	assert.Equal(t, 2, e.RedoCount())
}

func TestFailedEditIsNotRecorded(t *testing.T) {
	e := New(WithContent("😀"))

	_, err := e.Insert(1, "x")
	assert.ErrorIs(t, err, buffer.ErrSplitsRune)
	assert.False(t, e.CanUndo())
	assert.Equal(t, "😀", e.Text())
}

func TestApplyEdits(t *testing.T) {
	e := New(WithContent("aaa bbb"))

	result, err := e.ApplyEdit(buffer.NewEdit(buffer.NewRange(4, 7), "c"))
	require.NoError(t, err)
	assert.Equal(t, "bbb", result.OldText)

	err = e.ApplyEdits([]Edit{
		buffer.NewInsert(5, "!"),
		buffer.NewDelete(0, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, "a c!", e.Text())

	require.NoError(t, e.Undo())
	assert.Equal(t, "aaa c", e.Text())
}

func TestUndoGroup(t *testing.T) {
	e := New(WithContent("x"))

	e.BeginUndoGroup("wrap")
	_, err := e.Insert(0, "(")
	require.NoError(t, err)
	_, err = e.Insert(e.Len(), ")")
	require.NoError(t, err)
	e.EndUndoGroup()

	assert.Equal(t, 1, e.UndoCount())
	require.NoError(t, e.Undo())
	assert.Equal(t, "x", e.Text())
}

func TestReadOnly(t *testing.T) {
	e := New(WithContent("fixed"), WithReadOnly())

	_, err := e.Insert(0, "x")
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, e.Delete(0, 1), ErrReadOnly)
	assert.ErrorIs(t, e.Undo(), ErrReadOnly)
	assert.ErrorIs(t, e.SetContent(""), ErrReadOnly)
	assert.True(t, e.IsReadOnly())
	assert.Equal(t, "fixed", e.Text())
}

func TestNamedSnapshots(t *testing.T) {
	e := New(WithContent("v1"))
	e.CreateSnapshot("first")

	require.NoError(t, e.SetContent("v2"))
	e.CreateSnapshot("second")
	assert.Equal(t, []string{"first", "second"}, e.ListSnapshots())

	snap, err := e.GetSnapshot("first")
	require.NoError(t, err)
	assert.Equal(t, "v1", snap.Text())

	require.NoError(t, e.RestoreSnapshot("first"))
	assert.Equal(t, "v1", e.Text())

	require.NoError(t, e.Undo())
	assert.Equal(t, "v2", e.Text())

	e.DeleteSnapshot("first")
	assert.ErrorIs(t, e.RestoreSnapshot("first"), ErrSnapshotNotFound)
	_, err = e.GetSnapshot("first")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSetContentClearsHistory(t *testing.T) {
	e := New()
	_, err := e.Insert(0, "abc")
	require.NoError(t, err)

	require.NoError(t, e.SetContent("new"))
	assert.Equal(t, "new", e.Text())
	assert.False(t, e.CanUndo())

	require.NoError(t, e.Clear())
	assert.True(t, e.IsEmpty())
}

func TestSave(t *testing.T) {
	e := New(WithContent("h\u00e9"))

	var out bytes.Buffer
	require.NoError(t, e.Save(&out, buffer.EncodingUTF16BE))
	assert.Equal(t, []byte{0xFE, 0xFF, 0x00, 0x68, 0x00, 0xE9}, out.Bytes())
}

func TestStatsAndRebalance(t *testing.T) {
	e := New(WithContent(strings.Repeat("abcdefgh", 64)), WithLeafUnits(8))

	stats := e.Stats()
	assert.Equal(t, int64(512), stats.Length)
	assert.Equal(t, 64, stats.Leaves)

	root := e.Root()
	e.Rebalance()
	assert.Equal(t, root, e.Root(), "a balanced root is left alone")
}

func TestMotion(t *testing.T) {
	e := New(WithContent("e\u0301\U0001F600x"))

	next, err := e.NextGrapheme(0)
	require.NoError(t, err)
	assert.Equal(t, Offset(2), next)

	next, err = e.NextRune(2)
	require.NoError(t, err)
	assert.Equal(t, Offset(4), next)

	prev, err := e.PrevRune(4)
	require.NoError(t, err)
	assert.Equal(t, Offset(2), prev)

	prev, err = e.PrevGrapheme(2)
	require.NoError(t, err)
	assert.Equal(t, Offset(0), prev)
}
