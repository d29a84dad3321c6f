package main

import (
	"os"

	"github.com/kostas2370/Video-Creator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
