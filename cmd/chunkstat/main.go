// chunkstat computes statistics over large syslog files by processing
// line-aligned chunks in parallel.
package main

import (
	"os"

	"github.com/nemanja-m/chunkstat/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
