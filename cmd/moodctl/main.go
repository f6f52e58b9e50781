// moodctl prints the mood trend, pixel calendar and streak of a journal.
package main

import (
	"fmt"
	"os"

	"mindspace/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
