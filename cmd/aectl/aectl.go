package main

import (
	"os"

	"github.com/datatonic/weatherops/internal/aectl/cmd"
)

func main() {
	command := cmd.NewDefaultAECtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
