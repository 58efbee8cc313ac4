package app

import (
	"context"
	"fmt"

	"procview/internal/controller"
)

// KillResult aggregates the kill command outcome.
type KillResult struct {
	controller.TerminateResult
	Message string
}

// Resolve returns the pids whose process name contains name.
func (a *App) Resolve(ctx context.Context, name string) ([]int32, error) {
	return a.ctl.Resolve(ctx, name)
}

// Kill asks every process whose name contains name to terminate.
func (a *App) Kill(ctx context.Context, name string) (KillResult, error) {
	res, err := a.ctl.Terminate(ctx, name)
	result := KillResult{TerminateResult: res}
	if err == nil && len(res.Events) == 0 {
		result.Message = fmt.Sprintf("No processes match %q", name)
	}
	return result, err
}

// Suspend stops pid.
func (a *App) Suspend(ctx context.Context, pid int32) (controller.StateChange, error) {
	return a.ctl.Suspend(ctx, pid)
}

// Resume continues pid.
func (a *App) Resume(ctx context.Context, pid int32) (controller.StateChange, error) {
	return a.ctl.Resume(ctx, pid)
}

// Launch opens target with the OS default handler.
func (a *App) Launch(ctx context.Context, target string) error {
	return a.ctl.Launch(ctx, target)
}
