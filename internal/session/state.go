package session

import "github.com/nibzard/tasklist-go/internal/todo"

// Kind is the severity of a notice.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice is the single message slot shown to the user.
type Notice struct {
	Kind    Kind
	Message string
}

// Op names a controller operation.
type Op string

const (
	OpRefresh Op = "refresh"
	OpAdd     Op = "add"
	OpToggle  Op = "toggle"
	OpDelete  Op = "delete"
)

// Phase is the controller state. It is one of Idle, Busy or Notifying.
type Phase interface {
	isPhase()
}

// Idle means no operation is running and no notice is shown.
type Idle struct{}

// Busy means a storage call is outstanding.
type Busy struct {
	Op Op
}

// Notifying means a notice is shown and waits to be dismissed.
type Notifying struct {
	Notice Notice
}

func (Idle) isPhase()      {}
func (Busy) isPhase()      {}
func (Notifying) isPhase() {}

// Snapshot is a copy of the session state taken under the controller lock.
type Snapshot struct {
	Input string
	Tasks todo.List
	Phase Phase
}

// Loading reports whether a storage call is outstanding.
func (s Snapshot) Loading() bool {
	_, ok := s.Phase.(Busy)
	return ok
}

// Notice returns the visible notice, if any.
func (s Snapshot) Notice() (Notice, bool) {
	if n, ok := s.Phase.(Notifying); ok {
		return n.Notice, true
	}
	return Notice{}, false
}

// Counts returns the footer counts.
func (s Snapshot) Counts() todo.Counts {
	return s.Tasks.Counts()
}

// ShowSpinner is true on a first load: busy with nothing to show yet.
func (s Snapshot) ShowSpinner() bool {
	return s.Loading() && len(s.Tasks) == 0
}

// ShowEmpty is true when the empty-state view replaces the list.
func (s Snapshot) ShowEmpty() bool {
	return !s.ShowSpinner() && len(s.Tasks) == 0
}
