package main

import (
	"fmt"
	"os"

	"vote_automation/presentation/terminal"
)

func main() {
	if err := terminal.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
