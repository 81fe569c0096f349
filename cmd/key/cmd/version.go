package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(c *cobra.Command, args []string) {
		fmt.Printf("key version %s (%s)\n", Version, Distribution)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
