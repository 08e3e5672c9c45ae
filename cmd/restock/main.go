package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/restock/internal/cli"
)

// Exit status: 0 for any completed check, 1 for everything else
// (wrong page, fetch failure, notification failure, bad config).
func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
