// Package cmd implements the `key` command-line tool: a root command
// with bare-invocation banner behavior plus run/fmt/version
// subcommands, built with github.com/spf13/cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version      = "0.1.0-dev"
	Distribution = "key-oss"
)

var rootCmd = &cobra.Command{
	Use:   "key",
	Short: "Key language interpreter",
	Long: `key is the interpreter for the Key scripting language:
a small dynamically-typed language with a tree-walking evaluator,
deterministic closure reclamation, and a native plugin ABI.`,
	// Bare invocation (no subcommand, no args) prints the banner below
	// and exits 0, rather than cobra's default usage text.
	Run: func(c *cobra.Command, args []string) {
		fmt.Println("> Key Lang")
		fmt.Println(Version)
		fmt.Println(Distribution)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
