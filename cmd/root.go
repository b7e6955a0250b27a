package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "importexport",
	Short: "Bulk product image import for the catalog",
	PersistentPreRun: func(c *cobra.Command, args []string) {
		if quiet, _ := c.Flags().GetBool("quiet"); !quiet {
			figure.NewFigure("ImportExport", "small", true).Print()
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Do not print the banner")
}

// Execute applies registered commands and runs the root command.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
