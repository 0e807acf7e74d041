//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"omibyte.io/blinky/blinky"
	"omibyte.io/blinky/board"
	"omibyte.io/blinky/clog"
	"omibyte.io/blinky/monitor"
	"omibyte.io/blinky/peripheral"
	"omibyte.io/blinky/rtos"
)

var (
	runOpts = struct {
		board         string
		heapSize      int
		maxPriorities int
		stats         bool
	}{}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Blink the user LED until interrupted",
		Long:  "Initialize the board, create the Blinky and Main tasks and hand control to the scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout())
		},
	}
)

func init() {
	env := Environment()
	runCmd.Flags().StringVarP(&runOpts.board, "board", "b", env.Value("BLINKY_BOARD"), "board name or chip. Default: $BLINKY_BOARD")
	runCmd.Flags().BoolVar(&runOpts.stats, "stats", false, "print LED toggle statistics on exit")
	addKernelFlags(runCmd.Flags(), env)
}

func addKernelFlags(flags *pflag.FlagSet, env Env) {
	defaults := rtos.DefaultConfig()
	flags.IntVar(&runOpts.heapSize, "heap-size", env.Int("BLINKY_HEAP_SIZE", int(defaults.TotalHeapSize)), "kernel heap size in bytes. Default: $BLINKY_HEAP_SIZE")
	flags.IntVar(&runOpts.maxPriorities, "max-priorities", int(defaults.MaxPriorities), "number of task priorities")
}

func kernelConfig() (rtos.Config, error) {
	cfg := rtos.DefaultConfig()
	if runOpts.heapSize <= 0 {
		return cfg, fmt.Errorf("%w: heap size %d", peripheral.ErrInvalidConfig, runOpts.heapSize)
	}
	if runOpts.maxPriorities <= 0 || runOpts.maxPriorities > 255 {
		return cfg, fmt.Errorf("%w: %d priorities", peripheral.ErrInvalidConfig, runOpts.maxPriorities)
	}
	cfg.TotalHeapSize = uintptr(runOpts.heapSize)
	cfg.MaxPriorities = rtos.Priority(runOpts.maxPriorities)
	return cfg, nil
}

func run(ctx context.Context, out io.Writer) error {
	info, err := board.All().Find(runOpts.board)
	if err != nil {
		return err
	}

	b, err := board.Open(info)
	if err != nil {
		return err
	}

	cfg, err := kernelConfig()
	if err != nil {
		return err
	}
	kernel := rtos.New(cfg)

	var mon *monitor.Monitor
	seq := blinky.NewSequencer(b, kernel, blinky.WithLED(func(pin peripheral.Pin) peripheral.Pin {
		mon = monitor.New(pin, kernel.TimeSource().Now)
		return mon
	}))

	clog.Info("board %s (%s driver), user LED on %s", info.Name, info.Driver, info.LED)
	err = seq.Run(ctx)

	if closeErr := b.Close(); closeErr != nil && !errors.Is(closeErr, board.ErrNotInitialized) {
		clog.Warning("failed to release board: %v", closeErr)
	}

	// The scheduler never hands control back on its own
	if errors.Is(err, blinky.ErrSchedulerReturned) {
		panic(err)
	}
	if err != nil {
		return err
	}

	if runOpts.stats && mon != nil {
		fmt.Fprintln(out, mon.Summary())
	}
	return nil
}
