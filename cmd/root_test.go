package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/tasklist-go/internal/session"
)

// setup isolates config, store and logs in temp dirs and captures output.
func setup(t *testing.T) (out, errOut *bytes.Buffer, dir string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "TASKLIST_") {
			name, _, _ := strings.Cut(env, "=")
			t.Setenv(name, "")
		}
	}
	dir = t.TempDir()
	// Equivalent of t.Chdir (Go 1.24+) for the Go 1.21 toolchain.
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	t.Setenv("PWD", dir)
	t.Setenv("TASKLIST_LATENCY_MS", "0")
	t.Setenv("TASKLIST_LOG_DIR", filepath.Join(home, "logs"))

	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return out, errOut, dir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	return Run(context.Background(), args)
}

func TestRunHelpAndVersion(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--help"}, "Usage:"},
		{[]string{"-h"}, "Commands:"},
		{[]string{"help"}, "Global Options:"},
		{[]string{"--version"}, "tasklist version dev"},
		{[]string{"-v"}, "tasklist version"},
		{[]string{"version"}, "tasklist version"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, _ := setup(t)
			if err := run(t, tt.args...); err != nil {
				t.Fatalf("Run(%v) error = %v", tt.args, err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestRunUnknownCommand(t *testing.T) {
	_, errOut, _ := setup(t)
	err := run(t, "frobnicate")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if !strings.Contains(errOut.String(), "Usage:") {
		t.Error("usage should be printed to stderr")
	}
}

func TestRunBadConfig(t *testing.T) {
	setup(t)
	err := run(t, "-store", "sqlite", "ls")
	if err == nil || !strings.Contains(err.Error(), "loading config") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestTUIRequiresTTY(t *testing.T) {
	setup(t)
	err := run(t)
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Fatalf("expected TTY error, got %v", err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	out, errOut, dir := setup(t)

	if err := run(t, "ls"); err != nil {
		t.Fatalf("ls on empty store: %v", err)
	}
	if !strings.Contains(out.String(), "No tasks yet") {
		t.Errorf("empty ls output:\n%s", out.String())
	}

	out.Reset()
	if err := run(t, "add", "Buy", "milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out.String(), "Buy milk") {
		t.Errorf("add output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, ".tasklist", "todos.json")); err != nil {
		t.Errorf("file store not written: %v", err)
	}

	out.Reset()
	if err := run(t, "ls", "-json"); err != nil {
		t.Fatalf("ls -json: %v", err)
	}
	id := extractID(t, out.String())

	out.Reset()
	if err := run(t, "toggle", id); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(out.String(), "[x]") {
		t.Errorf("toggle output:\n%s", out.String())
	}

	out.Reset()
	if err := run(t, "-locale", "ru", "ls"); err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(out.String(), "0 активных / 1 выполнено / 1 всего") {
		t.Errorf("ru footer missing:\n%s", out.String())
	}

	out.Reset()
	if err := run(t, "rm", id); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if !strings.Contains(out.String(), "Task deleted!") {
		t.Errorf("rm output:\n%s", out.String())
	}

	out.Reset()
	if err := run(t, "ls", "-json"); err != nil {
		t.Fatalf("ls -json: %v", err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("store after rm = %q, want []", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr:\n%s", errOut.String())
	}
}

// extractID pulls the first "id" value from a compact JSON array.
func extractID(t *testing.T, s string) string {
	t.Helper()
	_, rest, ok := strings.Cut(s, `"id":`)
	if !ok {
		t.Fatalf("no id in %q", s)
	}
	end := strings.IndexAny(rest, ",}")
	if end < 0 {
		t.Fatalf("malformed json %q", s)
	}
	return rest[:end]
}

func TestAddBlankTitle(t *testing.T) {
	_, errOut, _ := setup(t)
	err := run(t, "add", "   ")
	if !errors.Is(err, session.ErrBlankTitle) {
		t.Fatalf("expected ErrBlankTitle, got %v", err)
	}
	if !strings.Contains(errOut.String(), "Please enter a task") {
		t.Errorf("warning not printed:\n%s", errOut.String())
	}
}

func TestToggleUnknownID(t *testing.T) {
	setup(t)
	err := run(t, "toggle", "42")
	if err == nil || !strings.Contains(err.Error(), "no task with id 42") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestRemoveUnknownIDSucceeds(t *testing.T) {
	out, _, _ := setup(t)
	if err := run(t, "rm", "42"); err != nil {
		t.Fatalf("rm unknown id: %v", err)
	}
	if !strings.Contains(out.String(), "Task deleted!") {
		t.Errorf("rm output:\n%s", out.String())
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		args    []string
		want    int64
		wantErr bool
	}{
		{[]string{"7"}, 7, false},
		{[]string{}, 0, true},
		{[]string{"1", "2"}, 0, true},
		{[]string{"abc"}, 0, true},
		{[]string{"0"}, 0, true},
		{[]string{"-3"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, ","), func(t *testing.T) {
			got, err := parseID(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseID(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseID(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestMalformedStoreReportsError(t *testing.T) {
	_, errOut, dir := setup(t)
	storeDir := filepath.Join(dir, ".tasklist")
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(storeDir, "todos.json"), []byte(`{"not":"a list"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run(t, "ls")
	if err == nil || !strings.Contains(err.Error(), "storage operation failed") {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !strings.Contains(errOut.String(), "Failed to load tasks") {
		t.Errorf("error notice not printed:\n%s", errOut.String())
	}

	out := &bytes.Buffer{}
	stdout = out
	if err := run(t, "doctor"); err == nil {
		t.Fatal("doctor should fail on a malformed store")
	}
	if !strings.Contains(out.String(), "Validation failed") {
		t.Errorf("doctor output:\n%s", out.String())
	}
}

func TestDoctorHealthy(t *testing.T) {
	out, _, _ := setup(t)
	if err := run(t, "add", "Write report"); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	if err := run(t, "doctor", "-v"); err != nil {
		t.Fatalf("doctor: %v\n%s", err, out.String())
	}
	for _, want := range []string{"Reachable", "Valid: 1 tasks", "Write report", "All checks passed"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("doctor output missing %q:\n%s", want, out.String())
		}
	}
}

func TestConfigCommand(t *testing.T) {
	out, _, _ := setup(t)
	if err := run(t, "-store", "memory", "config"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `store = "memory"  # flag`) {
		t.Errorf("config output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "latency_ms = 0  # environment") {
		t.Errorf("config output:\n%s", out.String())
	}

	out.Reset()
	if err := run(t, "config", "-example"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "# tasklist configuration file") {
		t.Errorf("example output:\n%s", out.String())
	}
}

func TestTailCommand(t *testing.T) {
	out, _, _ := setup(t)
	if err := run(t, "tail"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No log files found.") {
		t.Errorf("tail without logs:\n%s", out.String())
	}

	if err := run(t, "add", "Buy milk"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := run(t, "tail", "-n", "50"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Tailing:", "task added", "session finished"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("tail output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := run(t, "tail", "-list"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "bytes") {
		t.Errorf("tail -list output:\n%s", out.String())
	}
}
