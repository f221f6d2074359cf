package main

import (
	"os"

	"github.com/norilang/nori/cmd/nori/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
