// Package todo defines task records and the stored collection format.
package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed todos.schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/nibzard/tasklist-go/todos.schema.json"

// Task represents a single task in the collection.
type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Patch is a shallow update. Nil fields are left untouched.
// The id of a task can never be patched.
type Patch struct {
	Title     *string
	Completed *bool
	CreatedAt *time.Time
}

// PatchFrom returns a patch carrying every mutable field of t.
func PatchFrom(t Task) Patch {
	title := t.Title
	completed := t.Completed
	createdAt := t.CreatedAt
	return Patch{
		Title:     &title,
		Completed: &completed,
		CreatedAt: &createdAt,
	}
}

// WithCompleted returns a copy of p with Completed set.
func (p Patch) WithCompleted(completed bool) Patch {
	p.Completed = &completed
	return p
}

// Apply merges the patch into t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.CreatedAt != nil {
		t.CreatedAt = *p.CreatedAt
	}
}

// List is an ordered collection of tasks.
type List []Task

// Index returns the position of the task with id, or -1.
func (l List) Index(id int64) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a copy of the task with id.
func (l List) Find(id int64) (Task, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i], true
	}
	return Task{}, false
}

// Without returns a new list with every task matching id removed.
func (l List) Without(id int64) List {
	out := make(List, 0, len(l))
	for _, t := range l {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// MaxID returns the largest id in the list, or 0 when empty.
func (l List) MaxID() int64 {
	var maxID int64
	for _, t := range l {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID
}

// Clone returns a copy that shares no backing array with l.
func (l List) Clone() List {
	if l == nil {
		return List{}
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Counts summarizes a list for the footer.
type Counts struct {
	Active    int
	Completed int
	Total     int
}

// Counts computes active, completed and total counts.
func (l List) Counts() Counts {
	c := Counts{Total: len(l)}
	for _, t := range l {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location
	Err  error  // underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Validate checks a stored value against the collection schema.
// A nil or blank value is valid.
func Validate(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Err: fmt.Errorf("parse collection: %w", err)}
	}

	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		var errs []error
		collectSchemaErrors(&errs, ve)
		return errors.Join(errs...)
	}
	return nil
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/0/title" into "[0].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

// Decode validates and parses a stored collection.
func Decode(data []byte) (List, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return List{}, nil
	}
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("validate collection: %w", err)
	}

	var list List
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse collection: %w", err)
	}
	if list == nil {
		list = List{}
	}
	return list, nil
}

// Encode serializes a collection for storage.
func Encode(list List) ([]byte, error) {
	if list == nil {
		list = List{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshal collection: %w", err)
	}
	return data, nil
}
