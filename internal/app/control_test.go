package app

import (
	"context"
	"errors"
	"testing"

	"procview/internal/controller"
	"procview/internal/proctable"
	"procview/internal/proctable/proctabletest"
)

type nopLauncher struct{ target string }

func (l *nopLauncher) Launch(_ context.Context, target string) error {
	l.target = target
	return nil
}

func TestAppKillNoMatches(t *testing.T) {
	app := New(Options{Table: fakeTable()})
	res, err := app.Kill(context.Background(), "python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != `No processes match "python"` {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestAppKillMatches(t *testing.T) {
	tbl := fakeTable()
	app := New(Options{Table: tbl})
	res, err := app.Kill(context.Background(), "chrom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Successes != 2 || res.Message != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAppResolve(t *testing.T) {
	app := New(Options{Table: fakeTable()})
	pids, err := app.Resolve(context.Background(), "chrome")
	if err != nil || len(pids) != 2 || pids[0] != 2 || pids[1] != 3 {
		t.Fatalf("unexpected resolve: %v, %v", pids, err)
	}
}

func TestAppSuspendResume(t *testing.T) {
	app := New(Options{Table: fakeTable()})
	change, err := app.Suspend(context.Background(), 1)
	if err != nil || change.Status != proctable.StatusStopped {
		t.Fatalf("unexpected suspend: %+v, %v", change, err)
	}
	change, err = app.Resume(context.Background(), 1)
	if err != nil || change.Status != proctable.StatusRunning {
		t.Fatalf("unexpected resume: %+v, %v", change, err)
	}
	if _, err := app.Suspend(context.Background(), 404); !errors.Is(err, controller.ErrNoProcessFound) {
		t.Fatalf("expected ErrNoProcessFound, got %v", err)
	}
}

func TestAppLaunchUsesLauncher(t *testing.T) {
	l := &nopLauncher{}
	app := New(Options{Table: proctabletest.New(), Launcher: l})
	if err := app.Launch(context.Background(), "notes.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.target != "notes.txt" {
		t.Fatalf("launcher not used, got %q", l.target)
	}
}
