// Command lumo is the desktop host's native entry point. It starts the
// application log, supervises the lumo-server sidecar for the lifetime of
// the process, and stops the sidecar on exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
