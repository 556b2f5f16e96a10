package main

import (
	"os"

	"github.com/dshills/reviewtour/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
