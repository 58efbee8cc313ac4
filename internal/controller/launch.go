package controller

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher starts a program or document.
type Launcher interface {
	Launch(ctx context.Context, target string) error
}

// Opener launches targets through the platform's default file-open handler.
type Opener struct {
	goos     string
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
	start    func(cmd *exec.Cmd) error
}

// NewOpener returns an Opener for the running OS.
func NewOpener() *Opener {
	return &Opener{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		stat:     os.Stat,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// Launch checks that target exists, then hands it to the OS without waiting.
// The started program outlives ctx and this process.
func (o *Opener) Launch(_ context.Context, target string) error {
	resolved, err := o.locate(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}
	cmd := o.command(resolved)
	if err := o.start(cmd); err != nil {
		return fmt.Errorf("%w: start %s: %v", ErrLaunchFailed, resolved, err)
	}
	if cmd.Process != nil {
		_ = cmd.Process.Release()
	}
	return nil
}

func (o *Opener) locate(target string) (string, error) {
	if strings.ContainsAny(target, `/\`) {
		if _, err := o.stat(target); err != nil {
			return "", err
		}
		return target, nil
	}
	if path, err := o.lookPath(target); err == nil {
		return path, nil
	}
	if _, err := o.stat(target); err != nil {
		return "", fmt.Errorf("%q not found in PATH or working directory", target)
	}
	return target, nil
}

func (o *Opener) command(target string) *exec.Cmd {
	switch o.goos {
	case "windows":
		return exec.Command("cmd", "/c", "start", "", target)
	case "darwin":
		return exec.Command("open", target)
	default:
		return exec.Command("xdg-open", target)
	}
}
