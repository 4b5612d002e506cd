// Command phlint is the static type checker's command-line front-end.
package main

import (
	"fmt"
	"os"

	"github.com/phlint-dev/phlint/cmd/phlint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
