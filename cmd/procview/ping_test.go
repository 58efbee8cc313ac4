package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPingSuccess(t *testing.T) {
	withController(t, &stubController{
		pingFunc: func(ctx context.Context, timeout time.Duration) (string, error) {
			if timeout != 2*time.Second {
				t.Fatalf("expected timeout 2s, got %v", timeout)
			}
			return "pong", nil
		},
	})

	out, err := execute(t, "ping")
	if err != nil {
		t.Fatalf("ping error: %v", err)
	}
	if out != "pong\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPingError(t *testing.T) {
	expected := errors.New("daemon down")
	withController(t, &stubController{
		pingFunc: func(ctx context.Context, timeout time.Duration) (string, error) {
			if timeout != time.Second {
				t.Fatalf("expected timeout 1s, got %v", timeout)
			}
			return "", expected
		},
	})

	_, err := execute(t, "ping", "--timeout", "1")
	if !errors.Is(err, expected) {
		t.Fatalf("expected error %v, got %v", expected, err)
	}
}
