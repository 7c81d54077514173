package main

import (
	"os"

	"github.com/scgursel/kakule-katalog/internal/transport/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
