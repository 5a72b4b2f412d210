package todo

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEncodeDecode(t *testing.T) {
	created := time.Date(2024, 6, 10, 6, 13, 20, 0, time.UTC)
	original := List{
		{ID: 1, Title: "Buy milk", CreatedAt: created},
		{ID: 2, Title: "Walk dog", Completed: true, CreatedAt: created},
	}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("Tasks count: got %d, want 2", len(decoded))
	}
	for i := range original {
		if decoded[i].ID != original[i].ID || decoded[i].Title != original[i].Title ||
			decoded[i].Completed != original[i].Completed || !decoded[i].CreatedAt.Equal(original[i].CreatedAt) {
			t.Errorf("task %d: got %+v, want %+v", i, decoded[i], original[i])
		}
	}
}

func TestEncodeUsesStoredFieldNames(t *testing.T) {
	data, err := Encode(List{{ID: 7, Title: "x", CreatedAt: time.Unix(0, 0).UTC()}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for _, key := range []string{`"id":7`, `"title":"x"`, `"completed":false`, `"createdAt":"1970-01-01T00:00:00Z"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("encoded value %s missing %s", data, key)
		}
	}
}

func TestEncodeNil(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Encode(nil) = %s, want []", data)
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, input := range []string{"", "  ", "[]"} {
		list, err := Decode([]byte(input))
		if err != nil {
			t.Errorf("Decode(%q) failed: %v", input, err)
			continue
		}
		if list == nil || len(list) != 0 {
			t.Errorf("Decode(%q) = %v, want empty non-nil list", input, list)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantPath string
	}{
		{
			name:  "valid collection",
			input: `[{"id":1,"title":"a","completed":false,"createdAt":"2024-01-01T00:00:00.000Z"}]`,
		},
		{
			name:    "not json",
			input:   `{oops`,
			wantErr: true,
		},
		{
			name:    "object instead of array",
			input:   `{"todos":[]}`,
			wantErr: true,
		},
		{
			name:     "missing title",
			input:    `[{"id":1,"completed":false,"createdAt":"2024-01-01T00:00:00Z"}]`,
			wantErr:  true,
			wantPath: "[0]",
		},
		{
			name:     "empty title",
			input:    `[{"id":1,"title":"","completed":false,"createdAt":"2024-01-01T00:00:00Z"}]`,
			wantErr:  true,
			wantPath: "[0].title",
		},
		{
			name:     "fractional id",
			input:    `[{"id":1.5,"title":"a","completed":false,"createdAt":"2024-01-01T00:00:00Z"}]`,
			wantErr:  true,
			wantPath: "[0].id",
		},
		{
			name:     "bad timestamp",
			input:    `[{"id":1,"title":"a","completed":false,"createdAt":"yesterday"}]`,
			wantErr:  true,
			wantPath: "[0].createdAt",
		},
		{
			name:     "completed as string",
			input:    `[{"id":1,"title":"a","completed":"no","createdAt":"2024-01-01T00:00:00Z"}]`,
			wantErr:  true,
			wantPath: "[0].completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantPath == "" {
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Path != tt.wantPath {
				t.Errorf("Path: got %q, want %q", ve.Path, tt.wantPath)
			}
		})
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	_, err := Decode([]byte(`[{"id":1}]`))
	if err == nil {
		t.Fatal("expected error for invalid collection")
	}
	if !strings.Contains(err.Error(), "validate collection") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPatchApply(t *testing.T) {
	created := time.Now().UTC()
	task := Task{ID: 1, Title: "a", CreatedAt: created}

	done := true
	Patch{Completed: &done}.Apply(&task)
	if !task.Completed {
		t.Error("Completed should be true")
	}
	if task.Title != "a" || task.ID != 1 || !task.CreatedAt.Equal(created) {
		t.Errorf("unpatched fields changed: %+v", task)
	}

	title := "b"
	Patch{Title: &title}.Apply(&task)
	if task.Title != "b" || !task.Completed {
		t.Errorf("Title patch: got %+v", task)
	}
}

func TestPatchFromWithCompleted(t *testing.T) {
	task := Task{ID: 3, Title: "a", Completed: false, CreatedAt: time.Now().UTC()}
	p := PatchFrom(task).WithCompleted(!task.Completed)

	target := task
	p.Apply(&target)
	if !target.Completed {
		t.Error("expected Completed to flip")
	}
	if target.Title != task.Title || !target.CreatedAt.Equal(task.CreatedAt) || target.ID != task.ID {
		t.Errorf("only completed should change: got %+v, want %+v", target, task)
	}
	if task.Completed {
		t.Error("PatchFrom must not alias the source task")
	}
}

func TestListHelpers(t *testing.T) {
	l := List{
		{ID: 10, Title: "a"},
		{ID: 30, Title: "b", Completed: true},
		{ID: 20, Title: "c"},
	}

	if got := l.Index(30); got != 1 {
		t.Errorf("Index(30) = %d, want 1", got)
	}
	if got := l.Index(99); got != -1 {
		t.Errorf("Index(99) = %d, want -1", got)
	}
	if _, ok := l.Find(99); ok {
		t.Error("Find(99) should report missing")
	}
	if task, ok := l.Find(20); !ok || task.Title != "c" {
		t.Errorf("Find(20) = %+v, %v", task, ok)
	}
	if got := l.MaxID(); got != 30 {
		t.Errorf("MaxID() = %d, want 30", got)
	}

	without := l.Without(30)
	if len(without) != 2 || without[0].ID != 10 || without[1].ID != 20 {
		t.Errorf("Without(30) = %+v", without)
	}
	if len(l) != 3 {
		t.Error("Without must not modify the receiver")
	}
	if got := l.Without(99); len(got) != 3 {
		t.Errorf("Without(99) removed tasks: %+v", got)
	}
}

func TestCounts(t *testing.T) {
	tests := []struct {
		name string
		list List
		want Counts
	}{
		{name: "empty", list: List{}, want: Counts{}},
		{
			name: "one of each",
			list: List{{ID: 1, Completed: true}, {ID: 2}},
			want: Counts{Active: 1, Completed: 1, Total: 2},
		},
		{
			name: "all active",
			list: List{{ID: 1}, {ID: 2}, {ID: 3}},
			want: Counts{Active: 3, Total: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.list.Counts(); got != tt.want {
				t.Errorf("Counts() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"#":          "",
		"/0":         "[0]",
		"/0/title":   "[0].title",
		"#/12/id":    "[12].id",
		"/a~1b/c~0d": "a/b.c~d",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}
