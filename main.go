package main

import (
	"os"

	"github.com/bcdannyboy/qp/cli"
)

func main() {
	os.Exit(cli.Execute())
}
