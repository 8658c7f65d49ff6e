//go:build !tinygo

package cmd

import (
	"fmt"
	"text/tabwriter"

	"boardscan-go/setups"
	"boardscan-go/transport"

	"github.com/spf13/cobra"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List built-in board setups",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "BOARD\tBUS\tSDA/SCL\tHZ\tCAPABILITIES")
		for _, name := range setups.Names() {
			b, _ := setups.Lookup(name)
			p, _ := b.I2C()
			fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d\t%s\n", b.Name, b.Scan.Bus, p.SDA, p.SCL, p.Hz, b.Scan.Capabilities)
		}
		return tw.Flush()
	},
}

var busesCmd = &cobra.Command{
	Use:   "buses",
	Short: "List I2C buses available on this host",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := transport.PeriphBuses()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no I2C buses found")
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(busesCmd)
}
