package main

import (
	"fmt"
	"os"

	"github.com/neurlang/gosep/cmd/gosep/commands"
	"github.com/neurlang/gosep/pipeline"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(pipeline.ExitCode(err))
	}
}
