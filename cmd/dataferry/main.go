// Command dataferry runs BigQuery queries and ferries the results to Google
// Sheets, CSV files, and Cloud Storage buckets.
package main

import (
	"os"

	"github.com/mwhsu/dataferry/internal/cli"
	"github.com/mwhsu/dataferry/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps its outcome to an exit code. It is
// separate from main so tests can call it without exiting the process.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
