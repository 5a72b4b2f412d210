// Package storage is the CRUD facade over the task collection.
//
// Every operation performs a full read-modify-write of the collection held
// under a single key of the ambient store. There is no locking across
// processes: two writers racing on the same store lose updates, and the last
// writer wins.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/kv"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// Defaults.
const (
	DefaultKey     = "todos"
	DefaultLatency = 300 * time.Millisecond
)

// ErrStorage matches every failure returned by a Client.
var ErrStorage = errors.New("storage operation failed")

// Error records the operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports ErrStorage as a match.
func (e *Error) Is(target error) bool {
	return target == ErrStorage
}

// Repository is the contract the session controller depends on.
type Repository interface {
	// List returns the full collection in insertion order.
	List(ctx context.Context) (todo.List, error)

	// Create appends a new task. The title is not validated.
	Create(ctx context.Context, title string) (todo.Task, error)

	// Update merges patch into the task with id. A missing task is a
	// no-op that returns a nil task and a nil error.
	Update(ctx context.Context, id int64, patch todo.Patch) (*todo.Task, error)

	// Delete removes the task with id, if present.
	Delete(ctx context.Context, id int64) error
}

// Option configures a Client.
type Option func(*Client)

// WithKey sets the key that holds the collection.
func WithKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.key = key
		}
	}
}

// WithLatency sets the simulated latency applied before every operation.
func WithLatency(d time.Duration) Option {
	return func(c *Client) {
		c.latency = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client implements Repository on top of a kv.Store.
type Client struct {
	store   kv.Store
	key     string
	latency time.Duration
	now     func() time.Time
	logger  *log.Logger

	mu     sync.Mutex
	lastID int64
}

var _ Repository = (*Client)(nil)

// New returns a Client over store.
func New(store kv.Store, opts ...Option) *Client {
	c := &Client{
		store:   store,
		key:     DefaultKey,
		latency: DefaultLatency,
		now:     time.Now,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the key that holds the collection.
func (c *Client) Key() string {
	return c.key
}

// List implements Repository.
func (c *Client) List(ctx context.Context) (todo.List, error) {
	const op = "list"
	if err := c.wait(ctx, op); err != nil {
		return nil, err
	}
	list, err := c.load(ctx, op)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("listed tasks", "count", len(list))
	return list, nil
}

// Create implements Repository.
func (c *Client) Create(ctx context.Context, title string) (todo.Task, error) {
	const op = "create"
	if err := c.wait(ctx, op); err != nil {
		return todo.Task{}, err
	}
	list, err := c.load(ctx, op)
	if err != nil {
		return todo.Task{}, err
	}

	now := c.now().UTC()
	task := todo.Task{
		ID:        c.nextID(now, list.MaxID()),
		Title:     title,
		Completed: false,
		CreatedAt: now.Truncate(time.Millisecond),
	}
	list = append(list, task)

	if err := c.save(ctx, op, list); err != nil {
		return todo.Task{}, err
	}
	c.logger.Debug("created task", "id", task.ID)
	return task, nil
}

// Update implements Repository.
func (c *Client) Update(ctx context.Context, id int64, patch todo.Patch) (*todo.Task, error) {
	const op = "update"
	if err := c.wait(ctx, op); err != nil {
		return nil, err
	}
	list, err := c.load(ctx, op)
	if err != nil {
		return nil, err
	}

	i := list.Index(id)
	if i < 0 {
		c.logger.Warn("update target missing", "id", id)
		return nil, nil
	}
	patch.Apply(&list[i])

	if err := c.save(ctx, op, list); err != nil {
		return nil, err
	}
	updated := list[i]
	c.logger.Debug("updated task", "id", id, "completed", updated.Completed)
	return &updated, nil
}

// Delete implements Repository.
func (c *Client) Delete(ctx context.Context, id int64) error {
	const op = "delete"
	if err := c.wait(ctx, op); err != nil {
		return err
	}
	list, err := c.load(ctx, op)
	if err != nil {
		return err
	}

	filtered := list.Without(id)
	if err := c.save(ctx, op, filtered); err != nil {
		return err
	}
	c.logger.Debug("deleted task", "id", id, "removed", len(list)-len(filtered))
	return nil
}

// Raw returns the stored value as-is, for diagnostics.
func (c *Client) Raw(ctx context.Context) ([]byte, bool, error) {
	data, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, false, &Error{Op: "read", Err: err}
	}
	return data, ok, nil
}

// wait simulates network latency.
func (c *Client) wait(ctx context.Context, op string) error {
	if c.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return &Error{Op: op, Err: err}
		}
		return nil
	}
	timer := time.NewTimer(c.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return &Error{Op: op, Err: ctx.Err()}
	case <-timer.C:
		return nil
	}
}

func (c *Client) load(ctx context.Context, op string) (todo.List, error) {
	data, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	if !ok {
		return todo.List{}, nil
	}
	list, err := todo.Decode(data)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return list, nil
}

func (c *Client) save(ctx context.Context, op string, list todo.List) error {
	data, err := todo.Encode(list)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}

// nextID returns a millisecond timestamp that is strictly greater than any
// id this client issued and any id already stored.
func (c *Client) nextID(now time.Time, storedMax int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := now.UnixMilli()
	if id < 1 {
		id = 1
	}
	if id <= c.lastID {
		id = c.lastID + 1
	}
	if id <= storedMax {
		id = storedMax + 1
	}
	c.lastID = id
	return id
}
