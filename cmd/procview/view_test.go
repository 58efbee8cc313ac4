package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"procview/internal/app"
	"procview/internal/controller"
	"procview/internal/table"
)

func TestViewPassesFlagsThrough(t *testing.T) {
	stub := &stubController{
		viewFunc: func(ctx context.Context, opts table.Options) (table.View, error) {
			return table.View{
				Columns: []table.Column{table.ColumnName},
				Rows:    []table.Row{{PID: 9, Cells: []string{"sshd"}}},
			}, nil
		},
	}
	withController(t, stub)

	out, err := execute(t, "-n", "3", "-s", "cpu_usage", "--descending", "-c", "name", "--name", "sshd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stub.views) != 1 {
		t.Fatalf("expected one view, got %d", len(stub.views))
	}
	opts := stub.views[0]
	if opts.Limit != 3 || opts.SortBy != table.ColumnCPUUsage || !opts.Descending || opts.Name != "sshd" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if len(opts.Columns) != 1 || opts.Columns[0] != table.ColumnName {
		t.Fatalf("unexpected columns: %v", opts.Columns)
	}
	if !strings.Contains(out, "pid") || !strings.Contains(out, "sshd") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestViewDefaultLinesShowsNothing(t *testing.T) {
	stub := &stubController{}
	withController(t, stub)

	out, err := execute(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" || len(stub.views) != 0 {
		t.Fatalf("expected no output and no collection, got %q (%d views)", out, len(stub.views))
	}
}

func TestViewRejectsUnknownColumn(t *testing.T) {
	withController(t, &stubController{})
	_, err := execute(t, "-n", "0", "-c", "name,rss")
	if !errors.Is(err, table.ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn, got %v", err)
	}
}

func TestControllerOperationsRunBeforeDisplay(t *testing.T) {
	stub := &stubController{
		killFunc: func(ctx context.Context, name string) (app.KillResult, error) {
			if name != "chrome" {
				t.Fatalf("unexpected kill query %q", name)
			}
			return app.KillResult{TerminateResult: controller.TerminateResult{
				Events: []controller.TerminateEvent{
					{Kind: controller.EventSuccess, PID: 10},
					{Kind: controller.EventVanished, PID: 11},
				},
				Successes: 1,
			}}, nil
		},
		suspendFunc: func(ctx context.Context, pid int32) (controller.StateChange, error) {
			return controller.StateChange{PID: pid}, fmt.Errorf("%w with pid %d", controller.ErrNoProcessFound, pid)
		},
		viewFunc: func(ctx context.Context, opts table.Options) (table.View, error) {
			return table.View{Columns: []table.Column{table.ColumnName}}, nil
		},
	}
	withController(t, stub)

	out, err := execute(t, "--kill", "chrome", "--suspend", "4242", "-n", "0")
	if err != nil {
		t.Fatalf("missing pid must not fail the command: %v", err)
	}
	want := []string{
		"Sent terminate to pid 10",
		"Process 11 already exited",
		"no process found with pid 4242",
		"pid  name",
	}
	last := -1
	for _, w := range want {
		i := strings.Index(out, w)
		if i < 0 || i < last {
			t.Fatalf("expected %q after previous lines in:\n%s", w, out)
		}
		last = i
	}
}

func TestCreateLaunchFailureIsReported(t *testing.T) {
	withController(t, &stubController{
		launchFunc: func(ctx context.Context, target string) error {
			return fmt.Errorf("%w: %s: not found", controller.ErrLaunchFailed, target)
		},
	})

	out, err := execute(t, "--create", "nosuchprog")
	if err != nil {
		t.Fatalf("launch failure must not fail the command: %v", err)
	}
	if !strings.Contains(out, "launch failed: nosuchprog") {
		t.Fatalf("unexpected output %q", out)
	}
}
