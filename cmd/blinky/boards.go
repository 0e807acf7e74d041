//go:build !tinygo

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"omibyte.io/blinky/board"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the known boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		drivers := board.Drivers()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDRIVER\tLED\tCHIPS\tDESCRIPTION")
		for _, info := range board.All() {
			driver := info.Driver
			if !slices.Contains(drivers, driver) {
				driver += " (unavailable)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", info.Name, driver, info.LED, strings.Join(info.Chips, ","), info.Description)
		}
		return w.Flush()
	},
}
