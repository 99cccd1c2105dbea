package main

import (
	"github.com/jonathan/agrimrv-lite/internal/navigation"
	"github.com/jonathan/agrimrv-lite/internal/observability"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table",
	Long:  "Prints every page in navigation order with whether its Back and Forward buttons are available.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		observability.NewPrinter(cmd.OutOrStdout()).PrintRouteTable(navigation.DefaultTable())
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
