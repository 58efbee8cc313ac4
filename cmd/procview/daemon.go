package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdDaemon)
}

var (
	daemonForceRestart bool
	daemonStop         bool
)

func init() {
	cmdDaemon.Flags().BoolVarP(&daemonForceRestart, "force", "f", false, "Restart the daemon if it is already running")
	cmdDaemon.Flags().BoolVar(&daemonStop, "stop", false, "Stop the running daemon and exit")
}

var cmdDaemon = &cobra.Command{
	Use:   "daemon",
	Short: "Run the sampler daemon in the foreground",
	Long: `The daemon keeps a collector running so CPU usage is measured between
consecutive samples, and serves the latest snapshot to "procview --daemon".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, s, err := setup()
		if err != nil {
			return err
		}
		defer s.logger.Sync()
		out := cmd.OutOrStdout()

		if daemonStop {
			return ctrl.StopDaemon(daemonForceRestart)
		}

		st, err := ctrl.Status()
		if st.Running {
			if !daemonForceRestart {
				message := "Daemon is already running. Stop it manually or re-run with --force."
				if st.PID != 0 {
					message = fmt.Sprintf("Daemon is already running (pid %d). Stop it manually or re-run with --force.", st.PID)
				}
				if err != nil {
					message = fmt.Sprintf("Error checking if daemon is running: %v", err)
				}
				fmt.Fprintln(out, message)
				return nil
			}
			fmt.Fprintln(out, "Stopping existing daemon process...")
			if err := ctrl.StopDaemon(true); err != nil {
				return err
			}
		}

		handle, err := ctrl.StartDaemon()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Started daemon process (sampling every %s)\n", s.cfg.Interval)
		runSpin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(out))
		runSpin.Suffix = " Sampling..."
		runSpin.Start()

		sigc := make(chan os.Signal, 2)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigc:
		case <-cmd.Context().Done():
		}
		runSpin.Stop()
		return handle.Close()
	},
}
