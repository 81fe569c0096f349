package cmd

import (
	"fmt"
	"os"

	"github.com/keylang/key/internal/config"
	"github.com/keylang/key/internal/printer"
	"github.com/keylang/key/pkg/key"
	"github.com/spf13/cobra"
)

var (
	dumpAST bool
	trace   bool
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a Key script",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&dumpAST, "ast", false, "print the scanned AST before executing")
	runCmd.Flags().BoolVar(&trace, "trace", false, "log each statement's file:line as it executes")
}

func runScript(c *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	distribution := Distribution
	if cfg.Distribution != "" {
		distribution = cfg.Distribution
	}

	eng := key.New(key.WithDistribution(distribution), key.WithPluginSearchPaths(cfg.PluginPaths))
	if trace {
		eng.EnableTrace(os.Stderr)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	prog, err := eng.Compile(string(data))
	if err != nil {
		exitWithError("%v", err)
	}

	if dumpAST {
		fmt.Println(printer.Program(prog.AST()))
	}

	result, runErr := eng.Exec(prog)
	if runErr != nil {
		fmt.Fprint(os.Stderr, runErr.Error())
		fmt.Fprintln(os.Stderr)
		os.Exit(1)
	}

	os.Exit(key.ExitCode(result))
	return nil
}
