package cmd

import (
	"fmt"
	"os"

	"github.com/keylang/key/internal/parse"
	"github.com/keylang/key/internal/printer"
	"github.com/keylang/key/internal/scan"
	"github.com/spf13/cobra"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <script>",
	Short: "Pretty-print a Key script's parsed AST back to source",
	Long: `fmt reads a Key source file, parses it, and prints it back out with
consistent formatting, driven entirely off the parsed AST rather than
the original source text.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to the source file instead of stdout")
}

func runFmt(c *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	sc := scan.New(string(data))
	p := parse.New(sc)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		exitWithError("parsing %s: %v", path, errs)
	}

	out := printer.Program(prog)
	if fmtWrite {
		return os.WriteFile(path, []byte(out), 0o644)
	}
	fmt.Print(out)
	return nil
}
