package main

import (
	"os"

	"github.com/splitlens/splitlens/cmd/splitlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
