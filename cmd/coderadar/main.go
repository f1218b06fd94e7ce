package main

import (
	"fmt"
	"os"

	"github.com/githubnext/coderadar/internal/cli"
	"github.com/githubnext/coderadar/pkg/console"
)

// version is set by the release build; "dev" otherwise.
var version = "dev"

func main() {
	root := cli.NewRootCommand(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
