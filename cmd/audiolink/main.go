package main

import (
	"fmt"
	"os"

	"github.com/simonhull/audiolink/cmd/audiolink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "audiolink:", err)
		os.Exit(1)
	}
}
