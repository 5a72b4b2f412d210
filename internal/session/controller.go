// Package session owns the UI state and orchestrates storage calls.
//
// The Controller serializes operations with a busy guard: an operation
// started while another is outstanding fails with ErrBusy and makes no
// storage call. Every state transition is published on Changes so a view can
// re-render.
package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/locale"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/todo"
)

var (
	// ErrBusy is returned when an operation is already outstanding.
	ErrBusy = errors.New("another operation is in progress")

	// ErrBlankTitle is returned by Add when the trimmed input is empty.
	ErrBlankTitle = errors.New("task title is blank")
)

// Option configures a Controller.
type Option func(*Controller)

// WithMessages sets the strings used for notices.
func WithMessages(m locale.Messages) Option {
	return func(c *Controller) {
		c.msgs = m
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller holds the session state for one UI.
type Controller struct {
	repo    storage.Repository
	msgs    locale.Messages
	logger  *log.Logger
	changes chan struct{}

	mu    sync.Mutex
	input string
	tasks todo.List
	phase Phase
}

// New returns a Controller in the Idle phase with an empty task list.
func New(repo storage.Repository, opts ...Option) *Controller {
	c := &Controller{
		repo:    repo,
		msgs:    locale.For(locale.Default),
		logger:  log.New(io.Discard),
		changes: make(chan struct{}, 1),
		tasks:   todo.List{},
		phase:   Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Changes signals after every state transition. Signals coalesce: a
// receiver sees at least one signal after the latest change.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Input: c.input,
		Tasks: c.tasks.Clone(),
		Phase: c.phase,
	}
}

// SetInput replaces the form text.
func (c *Controller) SetInput(s string) {
	c.mu.Lock()
	changed := c.input != s
	c.input = s
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// Dismiss hides the visible notice. It never cancels an outstanding call.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	_, notifying := c.phase.(Notifying)
	if notifying {
		c.phase = Idle{}
	}
	c.mu.Unlock()
	if notifying {
		c.notify()
	}
}

// Refresh reloads the task list. On failure the list is cleared and an
// error notice is shown.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.begin(OpRefresh); err != nil {
		return err
	}
	if err := c.reload(ctx); err != nil {
		c.finish(&Notice{Kind: KindError, Message: c.msgs.LoadFailed})
		return err
	}
	c.finish(nil)
	return nil
}

// Add creates a task from the trimmed form input, clears the input unless
// it changed meanwhile, and refreshes. A blank input shows a warning and makes no storage call. On
// failure the input is kept so the user can retry.
func (c *Controller) Add(ctx context.Context) error {
	c.mu.Lock()
	if _, busy := c.phase.(Busy); busy {
		c.mu.Unlock()
		return ErrBusy
	}
	submitted := c.input
	title := strings.TrimSpace(submitted)
	if title == "" {
		c.phase = Notifying{Notice: Notice{Kind: KindWarning, Message: c.msgs.BlankTitle}}
		c.mu.Unlock()
		c.notify()
		return ErrBlankTitle
	}
	c.phase = Busy{Op: OpAdd}
	c.mu.Unlock()
	c.notify()

	task, err := c.repo.Create(ctx, title)
	if err != nil {
		c.logger.Error("add task failed", "err", err)
		c.finish(&Notice{Kind: KindError, Message: c.msgs.AddFailed})
		return err
	}
	c.logger.Info("task added", "id", task.ID)

	// Text edited since submission is kept.
	c.mu.Lock()
	cleared := c.input == submitted
	if cleared {
		c.input = ""
	}
	c.mu.Unlock()
	if cleared {
		c.notify()
	}

	if err := c.reload(ctx); err != nil {
		c.finish(&Notice{Kind: KindError, Message: c.msgs.LoadFailed})
		return err
	}
	c.finish(nil)
	return nil
}

// Toggle flips the completed flag of the task with id. A task missing from
// the current snapshot is silently ignored.
func (c *Controller) Toggle(ctx context.Context, id int64) error {
	c.mu.Lock()
	if _, busy := c.phase.(Busy); busy {
		c.mu.Unlock()
		return ErrBusy
	}
	task, ok := c.tasks.Find(id)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("toggle ignored, task not in snapshot", "id", id)
		return nil
	}
	c.phase = Busy{Op: OpToggle}
	c.mu.Unlock()
	c.notify()

	updated, err := c.repo.Update(ctx, id, todo.PatchFrom(task).WithCompleted(!task.Completed))
	if err != nil {
		c.logger.Error("toggle task failed", "id", id, "err", err)
		c.finish(&Notice{Kind: KindError, Message: c.msgs.UpdateFailed})
		return err
	}
	if updated == nil {
		c.logger.Warn("toggle target vanished from store", "id", id)
	} else {
		c.logger.Info("task toggled", "id", id, "completed", updated.Completed)
	}

	if err := c.reload(ctx); err != nil {
		c.finish(&Notice{Kind: KindError, Message: c.msgs.LoadFailed})
		return err
	}
	c.finish(nil)
	return nil
}

// Delete removes the task with id without checking that it exists,
// refreshes, and always reports success unless the delete itself failed.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.begin(OpDelete); err != nil {
		return err
	}

	if err := c.repo.Delete(ctx, id); err != nil {
		c.logger.Error("delete task failed", "id", id, "err", err)
		c.finish(&Notice{Kind: KindError, Message: c.msgs.DeleteFailed})
		return err
	}
	c.logger.Info("task deleted", "id", id)

	// A failed reload is logged by reload; the success notice replaces it.
	_ = c.reload(ctx)
	c.finish(&Notice{Kind: KindSuccess, Message: c.msgs.Deleted})
	return nil
}

// begin moves to Busy unless an operation is outstanding. A visible notice
// is replaced.
func (c *Controller) begin(op Op) error {
	c.mu.Lock()
	if _, busy := c.phase.(Busy); busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.phase = Busy{Op: op}
	c.mu.Unlock()
	c.notify()
	return nil
}

// finish leaves Busy for Idle, or for Notifying when n is non-nil.
func (c *Controller) finish(n *Notice) {
	c.mu.Lock()
	if n != nil {
		c.phase = Notifying{Notice: *n}
	} else {
		c.phase = Idle{}
	}
	c.mu.Unlock()
	c.notify()
}

// reload replaces the task list, clearing it on failure.
func (c *Controller) reload(ctx context.Context) error {
	list, err := c.repo.List(ctx)
	c.mu.Lock()
	if err != nil {
		c.tasks = todo.List{}
	} else {
		c.tasks = list.Clone()
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		c.logger.Error("load tasks failed", "err", err)
		return err
	}
	return nil
}

func (c *Controller) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}
