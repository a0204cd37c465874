package main

import (
	"os"

	"github.com/ambuflow/ambuflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
