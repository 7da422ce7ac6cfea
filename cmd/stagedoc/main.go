// Command stagedoc runs the staged document pipeline from the command line
// against the same storage, OCR and model providers the server uses.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(loadSystem).Execute(); err != nil {
		os.Exit(1)
	}
}
