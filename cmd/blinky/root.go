//go:build !tinygo

package main

import (
	"os"

	"github.com/spf13/cobra"

	"omibyte.io/blinky/clog"
)

var (
	rootOpts = struct {
		logLevel string
		color    bool
	}{}

	rootCmd = &cobra.Command{
		Use:   "blinky",
		Short: "Blink a user LED from two cooperating tasks",
		Long: `blinky toggles a board's user LED every 500 ms. A timer task gives a binary
semaphore and a responder task takes it and toggles the LED.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := clog.ParseLevel(rootOpts.logLevel)
			if err != nil {
				return err
			}
			clog.SetOutput(cmd.ErrOrStderr(), rootOpts.color)
			clog.SetLevel(level)
			return nil
		},
	}
)

func init() {
	env := Environment()
	rootCmd.PersistentFlags().StringVarP(&rootOpts.logLevel, "log-level", "l", env.Value("BLINKY_LOG_LEVEL"), "log level (=debug, =info, =warning, =error). Default: $BLINKY_LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.color, "color", isTerminal(os.Stderr), "colour log level tags")

	rootCmd.AddCommand(runCmd, boardsCmd, versionCmd)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
