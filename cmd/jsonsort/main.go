// jsonsort sorts JSON documents by key, in place or from stdin.
package main

import (
	"os"

	"github.com/hupe1980/jsonsort/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
