package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/session"
	"github.com/nibzard/tasklist-go/internal/todo"
	"github.com/nibzard/tasklist-go/internal/ui"
)

// tuiCommand launches the interactive UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if !ui.IsTTY(stdout) {
		return fmt.Errorf("tui requires a TTY (try 'tasklist ls')")
	}

	a, err := openApp(ctx, cfg, "tui")
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.RunTUI(ctx, a.ctrl, a.msgs)
}

// lsCommand refreshes and prints the task list.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print the stored collection as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(ctx, cfg, "ls")
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ctrl.Refresh(ctx); err != nil {
		return reportFailure(a.ctrl.Snapshot(), "listing tasks", err)
	}
	snap := a.ctrl.Snapshot()

	if *asJSON {
		data, err := todo.Encode(snap.Tasks)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	if snap.ShowEmpty() {
		fmt.Fprintln(stdout, a.msgs.EmptyTitle)
		fmt.Fprintln(stdout, a.msgs.EmptyHint)
		return nil
	}
	printTaskList(stdout, snap.Tasks)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, a.msgs.Footer(snap.Counts()))
	return nil
}

// addCommand creates a task from the joined arguments.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	a, err := openApp(ctx, cfg, "add")
	if err != nil {
		return err
	}
	defer a.Close()

	a.ctrl.SetInput(strings.Join(args, " "))
	if err := a.ctrl.Add(ctx); err != nil {
		return reportFailure(a.ctrl.Snapshot(), "adding task", err)
	}

	snap := a.ctrl.Snapshot()
	if n := len(snap.Tasks); n > 0 {
		t := snap.Tasks[n-1]
		fmt.Fprintf(stdout, "Added %d: %s\n", t.ID, t.Title)
	}
	return nil
}

// toggleCommand flips the completed flag of one task.
func toggleCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cfg, "toggle")
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ctrl.Refresh(ctx); err != nil {
		return reportFailure(a.ctrl.Snapshot(), "loading tasks", err)
	}
	if _, ok := a.ctrl.Snapshot().Tasks.Find(id); !ok {
		return fmt.Errorf("no task with id %d", id)
	}
	if err := a.ctrl.Toggle(ctx, id); err != nil {
		return reportFailure(a.ctrl.Snapshot(), "toggling task", err)
	}

	if t, ok := a.ctrl.Snapshot().Tasks.Find(id); ok {
		printTask(stdout, t)
	}
	return nil
}

// rmCommand deletes one task. Deleting an unknown id still succeeds.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cfg, "rm")
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ctrl.Delete(ctx, id); err != nil {
		return reportFailure(a.ctrl.Snapshot(), "deleting task", err)
	}
	printNotice(stdout, a.ctrl.Snapshot())
	return nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one task id, got %d arguments", len(args))
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

// reportFailure prints the visible notice on stderr and wraps err.
func reportFailure(snap session.Snapshot, action string, err error) error {
	printNotice(stderr, snap)
	if errors.Is(err, session.ErrBlankTitle) {
		return err
	}
	return fmt.Errorf("%s: %w", action, err)
}

func printNotice(w io.Writer, snap session.Snapshot) {
	n, ok := snap.Notice()
	if !ok {
		return
	}
	fmt.Fprintf(w, "%s %s\n", noticeMarks[n.Kind], n.Message)
}

var noticeMarks = map[session.Kind]string{
	session.KindInfo:    "ℹ️ ",
	session.KindSuccess: "✅",
	session.KindWarning: "⚠️ ",
	session.KindError:   "❌",
}

func printTaskList(w io.Writer, tasks todo.List) {
	for _, t := range tasks {
		printTask(w, t)
	}
}

func printTask(w io.Writer, t todo.Task) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "  %s %d  %s  (%s)\n", box, t.ID, t.Title, t.CreatedAt.Local().Format("2006-01-02 15:04"))
}
