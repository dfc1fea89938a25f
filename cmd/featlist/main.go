// featlist - Feature catalogue tooling for open energy modelling
// Source: https://github.com/open-energy-transition/featlist

package main

import (
	"os"

	"github.com/open-energy-transition/featlist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
