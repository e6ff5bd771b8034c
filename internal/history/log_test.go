package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snap struct{ Title string }

func TestLog_RecordUndoRedoRestoresForward(t *testing.T) {
	l := New(10)
	l.Record(UpdateProject, snap{"after"}, snap{"before"})

	cmd, ok := l.Undo()
	require.True(t, ok)
	assert.Equal(t, snap{"before"}, cmd.Inverse)

	cmd, ok = l.Redo()
	require.True(t, ok)
	assert.Equal(t, UpdateProject, cmd.Type)
	assert.Equal(t, snap{"after"}, cmd.Forward)

	u, r := l.Len()
	assert.Equal(t, 1, u)
	assert.Equal(t, 0, r)
}

func TestLog_RecordAfterUndoClearsRedo(t *testing.T) {
	l := New(10)
	l.Record(CreateProject, snap{"a"}, "a")
	_, ok := l.Undo()
	require.True(t, ok)
	require.True(t, l.CanRedo())

	l.Record(CreateProject, snap{"b"}, "b")
	assert.False(t, l.CanRedo())
	_, ok = l.Redo()
	assert.False(t, ok)
}

func TestLog_EmptyStacksAreNoOps(t *testing.T) {
	l := New(10)
	cmd, ok := l.Undo()
	assert.False(t, ok)
	assert.Equal(t, Command{}, cmd)

	_, ok = l.Redo()
	assert.False(t, ok)
	assert.False(t, l.CanUndo())
}

func TestLog_UndoOrderIsLIFO(t *testing.T) {
	l := New(10)
	for i := 0; i < 3; i++ {
		l.Record(UpdateProject, i, i)
	}
	for want := 2; want >= 0; want-- {
		cmd, ok := l.Undo()
		require.True(t, ok)
		assert.Equal(t, want, cmd.Forward)
	}
	for want := 0; want < 3; want++ {
		cmd, ok := l.Redo()
		require.True(t, ok)
		assert.Equal(t, want, cmd.Forward)
	}
}

func TestLog_EvictsOldestBeyondLimit(t *testing.T) {
	l := New(3)
	for i := 0; i < 5; i++ {
		l.Record(UpdateProject, fmt.Sprint(i), nil)
	}
	u, _ := l.Len()
	assert.Equal(t, 3, u)

	var seen []any
	for l.CanUndo() {
		cmd, _ := l.Undo()
		seen = append(seen, cmd.Forward)
	}
	assert.Equal(t, []any{"4", "3", "2"}, seen)
}

func TestLog_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, New(0).Limit())
	assert.Equal(t, 7, New(7).Limit())
}

func TestLog_IndependentInstances(t *testing.T) {
	a, b := New(5), New(5)
	a.Record(CreateProject, 1, 1)
	assert.True(t, a.CanUndo())
	assert.False(t, b.CanUndo())
}

func TestLog_Clear(t *testing.T) {
	l := New(5)
	l.Record(DeleteProject, "fwd", "inv")
	l.Record(CreateProject, "fwd", "inv")
	l.Undo()

	l.Clear()
	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())
}

func TestLog_DiscardAfterFailedUndo(t *testing.T) {
	l := New(5)
	l.Record(CreateProject, "first", "inv")
	l.Record(UpdateProject, "second", "inv")

	_, ok := l.Undo()
	require.True(t, ok)
	l.DiscardRedo()

	assert.False(t, l.CanRedo())
	undo, redo := l.Len()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 0, redo)
}

func TestLog_DiscardAfterFailedRedo(t *testing.T) {
	l := New(5)
	l.Record(CreateProject, "first", "inv")
	l.Undo()

	_, ok := l.Redo()
	require.True(t, ok)
	l.DiscardUndo()

	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())
}

func TestLog_DiscardOnEmptyIsNoop(t *testing.T) {
	l := New(5)
	l.DiscardRedo()
	l.DiscardUndo()
	undo, redo := l.Len()
	assert.Zero(t, undo)
	assert.Zero(t, redo)
}
