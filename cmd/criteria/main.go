package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/karstdb/criteria/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own structured errors; cobra-level errors
		// (bad flags, unknown subcommands) still need surfacing here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
