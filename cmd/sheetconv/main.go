// sheetconv - command-line client for the spreadsheet conversion service.
package main

import (
	"os"

	"github.com/rescale/sheetconv/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
