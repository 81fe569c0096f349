// Command key is the Key language interpreter's CLI entry point.
package main

import (
	"os"

	"github.com/keylang/key/cmd/key/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
