// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// app carries state shared by subcommands once the root pre-run has loaded
// configuration and built the logger.
type app struct {
	cfg    *Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

// newRootCmd wires the command tree. out receives results, errOut logs.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	var logLevel string

	root := &cobra.Command{
		Use:          "lvsolve",
		Short:        "Solve linear systems with LU, QR or SVD decompositions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			logger, err := newLogger(a.errOut, cfg.LogLevel, cfg.NoColor)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger

			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(newSolveCmd(a), newVersionCmd(a))

	return root
}
