// tokfilter removes out-of-range token IDs from a tokenized text dataset.
package main

import (
	"os"

	"github.com/hupe1980/tokfilter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
