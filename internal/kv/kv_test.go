package kv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// exerciseStore runs the contract every backend must satisfy.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	v, ok, err := s.Get(ctx, "todos")
	if err != nil {
		t.Fatalf("Get on missing key: %v", err)
	}
	if ok || v != nil {
		t.Fatalf("missing key: got %q, %v; want absent", v, ok)
	}

	if err := s.Set(ctx, "todos", []byte(`[1]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err = s.Get(ctx, "todos")
	if err != nil || !ok || string(v) != `[1]` {
		t.Fatalf("Get after Set: got %q, %v, %v", v, ok, err)
	}

	if err := s.Set(ctx, "todos", []byte(`[2]`)); err != nil {
		t.Fatalf("second Set: %v", err)
	}
	v, _, _ = s.Get(ctx, "todos")
	if string(v) != `[2]` {
		t.Errorf("Set should replace the whole value, got %q", v)
	}

	v, ok, _ = s.Get(ctx, "other")
	if ok {
		t.Errorf("keys must be independent, got %q", v)
	}
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	value := []byte("abc")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x'

	got, _, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %q", got)
	}
	got[1] = 'y'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("returned value aliased stored slice: %q", again)
	}
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemory()
	if err := s.Set(ctx, "k", nil); err == nil {
		t.Error("expected error from cancelled context")
	}
	if _, _, err := s.Get(ctx, "k"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestFile(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "nested", "store"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	exerciseStore(t, s)

	data, err := os.ReadFile(s.Path("todos"))
	if err != nil {
		t.Fatalf("expected backing file: %v", err)
	}
	if string(data) != `[2]` {
		t.Errorf("backing file = %q", data)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestNewFileEmptyDir(t *testing.T) {
	if _, err := NewFile(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestFileReadError(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	// A directory where the value file should be makes ReadFile fail.
	if err := os.Mkdir(s.Path("todos"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Get(context.Background(), "todos"); err == nil {
		t.Error("expected read error")
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := map[string]string{
		"todos":     "todos",
		"":          "default",
		"../etc":    "etc",
		"a/b":       "a_b",
		"tasks:v1":  "tasks_v1",
		"My-List_2": "My-List_2",
		"...":       "default",
	}
	for in, want := range tests {
		if got := sanitizeKey(in); got != want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := Open(ctx, Options{Backend: "memory"})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := s.(*Memory); !ok {
			t.Errorf("got %T, want *Memory", s)
		}
	})

	t.Run("file is the default", func(t *testing.T) {
		s, err := Open(ctx, Options{Dir: t.TempDir()})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := s.(*File); !ok {
			t.Errorf("got %T, want *File", s)
		}
	})

	t.Run("backend name is case insensitive", func(t *testing.T) {
		s, err := Open(ctx, Options{Backend: " FILE ", Dir: t.TempDir()})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := s.(*File); !ok {
			t.Errorf("got %T, want *File", s)
		}
	})

	t.Run("redis without address fails", func(t *testing.T) {
		if _, err := Open(ctx, Options{Backend: "redis"}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: "etcd"})
		if err == nil || !strings.Contains(err.Error(), "unknown store backend") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TASKLIST_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TASKLIST_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedis(ctx, addr, "", 15)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer s.Close()
	if err := s.client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	exerciseStore(t, s)
}

func TestRedisWrapsClientErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewRedisWithClient(client)
	defer s.Close()
	ctx := context.Background()

	if _, _, err := s.Get(ctx, "todos"); err == nil || !strings.Contains(err.Error(), "redis get todos") {
		t.Errorf("Get() error = %v, want wrapped redis error", err)
	}
	if err := s.Set(ctx, "todos", []byte("[]")); err == nil || !strings.Contains(err.Error(), "redis set todos") {
		t.Errorf("Set() error = %v, want wrapped redis error", err)
	}
}
