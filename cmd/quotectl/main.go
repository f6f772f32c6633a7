package main

import (
	"os"

	"github.com/anshumaan69/tenderflow/cmd/quotectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
