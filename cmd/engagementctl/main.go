package main

import (
	"fmt"
	"os"

	"github.com/d60-Lab/engagement/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
