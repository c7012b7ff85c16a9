package main

import (
	"fmt"
	"os"

	"github.com/orthodx/arbor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
