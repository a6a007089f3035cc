package main

import (
	"os"

	"github.com/datatonic/weatherops/internal/asctl/cmd"
)

func main() {
	command := cmd.NewDefaultASCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
