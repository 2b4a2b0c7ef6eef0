// Command mbstyle translates map style filters and functions into filter and
// expression trees.
package main

import (
	"os"

	"github.com/roach88/mbstyle/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
