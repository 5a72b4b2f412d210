// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// FakeRepository is an in-memory storage.Repository for testing.
type FakeRepository struct {
	mu     sync.Mutex
	tasks  todo.List
	nextID int64

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Gate, when non-nil, blocks every call until it is closed or receives.
	Gate chan struct{}

	// Call counters
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	// LastPatch is the patch passed to the latest Update.
	LastPatch todo.Patch
}

var _ storage.Repository = (*FakeRepository)(nil)

// NewFakeRepository returns a repository holding tasks.
func NewFakeRepository(tasks ...todo.Task) *FakeRepository {
	f := &FakeRepository{nextID: 1}
	f.tasks = append(todo.List{}, tasks...)
	if maxID := f.tasks.MaxID(); maxID >= f.nextID {
		f.nextID = maxID + 1
	}
	return f
}

// Tasks returns a copy of the stored tasks.
func (f *FakeRepository) Tasks() todo.List {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks.Clone()
}

// Remove deletes a task behind the controller's back, as another session would.
func (f *FakeRepository) Remove(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = f.tasks.Without(id)
}

// StorageCalls returns the total number of calls made.
func (f *FakeRepository) StorageCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls + f.CreateCalls + f.UpdateCalls + f.DeleteCalls
}

func (f *FakeRepository) wait(ctx context.Context) error {
	if f.Gate == nil {
		return nil
	}
	select {
	case <-f.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List implements storage.Repository.
func (f *FakeRepository) List(ctx context.Context) (todo.List, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.tasks.Clone(), nil
}

// Create implements storage.Repository.
func (f *FakeRepository) Create(ctx context.Context, title string) (todo.Task, error) {
	if err := f.wait(ctx); err != nil {
		return todo.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateErr != nil {
		return todo.Task{}, f.CreateErr
	}
	task := todo.Task{
		ID:        f.nextID,
		Title:     title,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// Update implements storage.Repository.
func (f *FakeRepository) Update(ctx context.Context, id int64, patch todo.Patch) (*todo.Task, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastPatch = patch
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	i := f.tasks.Index(id)
	if i < 0 {
		return nil, nil
	}
	patch.Apply(&f.tasks[i])
	updated := f.tasks[i]
	return &updated, nil
}

// Delete implements storage.Repository.
func (f *FakeRepository) Delete(ctx context.Context, id int64) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.tasks = f.tasks.Without(id)
	return nil
}
