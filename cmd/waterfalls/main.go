package main

import (
	"os"

	"github.com/cascadelabs/waterfalls/cmd/waterfalls/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
