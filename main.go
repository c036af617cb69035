package main

import (
	"fmt"
	"os"

	"github.com/temirov/git-autoupdate/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the git-autoupdate command-line application.
func main() {
	executionError := cli.Execute()
	if executionError != nil && !cli.Reported(executionError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(cli.ExitCode(executionError))
}
