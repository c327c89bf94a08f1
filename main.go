package main

import (
	"fmt"
	"os"

	"github.com/dvilelaf/zerppay/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "zerppay: %v\n", err)
		os.Exit(1)
	}
}
