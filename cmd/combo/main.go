package main

import (
	"fmt"
	"os"

	"github.com/idilsaglam/combo/internal/cli"
)

// set by -ldflags "-X main.version=..."
var version = "dev"

func main() {
	code := cli.Run(os.Args[1:], cli.Options{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stdin:   os.Stdin,
		Version: version,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
