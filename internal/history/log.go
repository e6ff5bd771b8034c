// Package history implements a bounded linear undo/redo log.
//
// The log never touches roadmap state. It stores commands whose payloads are
// full snapshots and hands them back to the state owner, which applies the
// inverse on undo and the forward payload on redo.
package history

import "time"

// DefaultLimit is the undo depth used when New is given a non-positive limit.
const DefaultLimit = 50

// CommandType names the mutation a command records.
type CommandType string

const (
	CreateProject   CommandType = "create-project"
	UpdateProject   CommandType = "update-project"
	DeleteProject   CommandType = "delete-project"
	MoveProject     CommandType = "move-project"
	CreateMilestone CommandType = "create-milestone"
	UpdateMilestone CommandType = "update-milestone"
	DeleteMilestone CommandType = "delete-milestone"
	CreateMember    CommandType = "create-team-member"
	UpdateMember    CommandType = "update-team-member"
	DeleteMember    CommandType = "delete-team-member"
	ReorderMembers  CommandType = "reorder-team-members"
	CreateDep       CommandType = "create-dependency"
	UpdateDep       CommandType = "update-dependency"
	DeleteDep       CommandType = "delete-dependency"
	CreateLeave     CommandType = "create-leave-block"
	UpdateLeave     CommandType = "update-leave-block"
	DeleteLeave     CommandType = "delete-leave-block"
	CreatePeriod    CommandType = "create-period-marker"
	UpdatePeriod    CommandType = "update-period-marker"
	DeletePeriod    CommandType = "delete-period-marker"
)

// Command is one recorded mutation. Forward replays it; Inverse reverses it.
type Command struct {
	Type       CommandType
	Forward    any
	Inverse    any
	RecordedAt time.Time
}

// Log holds the undo and redo stacks of one roadmap session. The zero value
// is not usable; construct with New. Not safe for concurrent use.
type Log struct {
	limit int
	undo  []Command
	redo  []Command
	now   func() time.Time
}

// New returns an empty log keeping at most limit undoable commands.
func New(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit, now: time.Now}
}

// Record pushes a command and clears the redo stack. When the undo stack is
// full the oldest command is evicted.
func (l *Log) Record(typ CommandType, forward, inverse any) Command {
	cmd := Command{Type: typ, Forward: forward, Inverse: inverse, RecordedAt: l.now()}
	l.undo = append(l.undo, cmd)
	if over := len(l.undo) - l.limit; over > 0 {
		// Copy down so the evicted payloads can be collected.
		l.undo = append(l.undo[:0:0], l.undo[over:]...)
	}
	l.redo = nil
	return cmd
}

// Undo moves the newest command to the redo stack and returns it so the
// caller can apply its Inverse. It reports false when there is nothing to undo.
func (l *Log) Undo() (Command, bool) {
	if len(l.undo) == 0 {
		return Command{}, false
	}
	cmd := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, cmd)
	return cmd, true
}

// Redo moves the newest undone command back to the undo stack and returns it
// so the caller can apply its Forward payload. It reports false when there is
// nothing to redo.
func (l *Log) Redo() (Command, bool) {
	if len(l.redo) == 0 {
		return Command{}, false
	}
	cmd := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, cmd)
	return cmd, true
}

// DiscardRedo drops the newest redo entry. The state owner calls it after
// Undo when the inverse could not be applied, so the command is forgotten
// rather than offered for redo.
func (l *Log) DiscardRedo() {
	if len(l.redo) > 0 {
		l.redo = l.redo[:len(l.redo)-1]
	}
}

// DiscardUndo drops the newest undo entry, the counterpart of DiscardRedo
// for a forward payload that failed on Redo.
func (l *Log) DiscardUndo() {
	if len(l.undo) > 0 {
		l.undo = l.undo[:len(l.undo)-1]
	}
}

func (l *Log) CanUndo() bool { return len(l.undo) > 0 }
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (l *Log) Len() (undo, redo int) { return len(l.undo), len(l.redo) }

// Limit returns the maximum undo depth.
func (l *Log) Limit() int { return l.limit }

// Clear drops both stacks, e.g. after the document is reloaded.
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
}
