package main

import (
	"fmt"

	"procview/internal/tui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdTUI)
}

var cmdTUI = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, s, err := setup()
		if err != nil {
			return err
		}
		defer s.logger.Sync()

		opts := s.cfg.TableOptions()
		opts.Limit = 0
		if err := tui.Run(ctrl, opts, s.cfg.Interval); err != nil {
			return fmt.Errorf("tui exited with error: %w", err)
		}
		return nil
	},
}
