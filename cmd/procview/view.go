package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"procview/internal/controller"
	"procview/internal/monitor"
	"procview/internal/table"

	"github.com/spf13/cobra"
)

var (
	viewColumns    string
	viewSortBy     string
	viewDescending bool
	viewLines      int
	viewLive       bool
	viewName       string

	resolveName string
	killName    string
	createPath  string
	suspendPID  int32
	resumePID   int32
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&viewColumns, "columns", "c", "", "Comma-separated columns to show (default name,cpu_usage,memory_usage,read_bytes,write_bytes,status,create_time,nice,n_threads,cores)")
	f.StringVarP(&viewSortBy, "sort-by", "s", "", "Column to sort by (default memory_usage)")
	f.BoolVar(&viewDescending, "descending", false, "Sort in descending order")
	f.IntVarP(&viewLines, "lines", "n", -1, "Rows to show: 0 all, N the first N, negative none")
	f.BoolVarP(&viewLive, "live-update", "u", false, "Keep refreshing the table")
	f.StringVar(&viewName, "name", "", "Show only processes with exactly this name")

	f.StringVar(&resolveName, "pid", "", "Print the pids of processes whose name contains this text")
	f.StringVar(&killName, "kill", "", "Terminate processes whose name contains this text")
	f.StringVar(&createPath, "create", "", "Launch a program or open a file")
	f.Int32Var(&suspendPID, "suspend", 0, "Suspend the process with this pid")
	f.Int32Var(&resumePID, "resume", 0, "Resume the process with this pid")
}

// ANSI: move home, clear screen.
const clearScreen = "\x1b[H\x1b[2J"

func runView(cmd *cobra.Command, args []string) error {
	ctrl, s, err := setup()
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	flags := cmd.Flags()

	if flags.Changed("pid") {
		pids, err := ctrl.Resolve(ctx, resolveName)
		if err != nil {
			return err
		}
		if len(pids) == 0 {
			fmt.Fprintf(out, "No processes match %q\n", resolveName)
		}
		for _, pid := range pids {
			fmt.Fprintln(out, pid)
		}
	}
	if flags.Changed("kill") {
		if err := runKill(cmd, ctrl, out); err != nil {
			return err
		}
	}
	if flags.Changed("create") {
		if err := ctrl.Launch(ctx, createPath); err != nil {
			if !errors.Is(err, controller.ErrLaunchFailed) {
				return err
			}
			fmt.Fprintln(out, err)
		} else {
			fmt.Fprintf(out, "Launched %s\n", createPath)
		}
	}
	if flags.Changed("suspend") {
		if err := reportStateChange(out, "Suspended")(ctrl.Suspend(ctx, suspendPID)); err != nil {
			return err
		}
	}
	if flags.Changed("resume") {
		if err := reportStateChange(out, "Resumed")(ctrl.Resume(ctx, resumePID)); err != nil {
			return err
		}
	}

	opts := viewOptions(cmd, s)
	if err := table.Validate(opts); err != nil {
		return err
	}

	if viewLive {
		return ctrl.Live(ctx, opts, func(f monitor.Frame) error {
			var b strings.Builder
			b.WriteString(clearScreen)
			if err := f.View.Render(&b); err != nil {
				return err
			}
			_, err := io.WriteString(out, b.String())
			return err
		})
	}

	if opts.Limit < 0 {
		return nil
	}
	view, err := ctrl.View(ctx, opts)
	if err != nil {
		return err
	}
	return view.Render(out)
}

func runKill(cmd *cobra.Command, ctrl controllerAPI, out io.Writer) error {
	res, err := ctrl.Kill(cmd.Context(), killName)
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	for _, ev := range res.Events {
		switch ev.Kind {
		case controller.EventSuccess:
			fmt.Fprintf(out, "Sent terminate to pid %d\n", ev.PID)
		case controller.EventVanished:
			fmt.Fprintf(out, "Process %d already exited\n", ev.PID)
		case controller.EventFailure:
			fmt.Fprintf(out, "Failed to terminate pid %d: %v\n", ev.PID, ev.Err)
		}
	}
	return err
}

func reportStateChange(out io.Writer, verb string) func(controller.StateChange, error) error {
	return func(change controller.StateChange, err error) error {
		if err != nil {
			if errors.Is(err, controller.ErrNoProcessFound) {
				fmt.Fprintln(out, err)
				return nil
			}
			return err
		}
		name := change.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(out, "%s pid %d (%s): %s\n", verb, change.PID, name, change.Status)
		return nil
	}
}

// viewOptions merges config values with flags that were set explicitly.
func viewOptions(cmd *cobra.Command, s settings) table.Options {
	opts := s.cfg.TableOptions()
	flags := cmd.Flags()
	if flags.Changed("columns") {
		opts.Columns = table.ParseColumns(viewColumns)
	}
	if flags.Changed("sort-by") {
		opts.SortBy = table.Column(viewSortBy)
	}
	if flags.Changed("descending") {
		opts.Descending = viewDescending
	}
	if flags.Changed("lines") {
		opts.Limit = viewLines
	} else if viewLive && opts.Limit < 0 {
		// live mode shows every row unless --lines is given
		opts.Limit = 0
	}
	opts.Name = viewName
	return opts
}
