// cmd/relpkg/main.go
package main

import (
	"fmt"
	"os"

	"github.com/arc-language/relpkg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Failure(err))
		os.Exit(1)
	}
}
