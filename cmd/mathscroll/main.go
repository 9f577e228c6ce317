// Command mathscroll renders narrated math tutorial scenes into
// storyboards and traces.
//
// Usage:
//
//	mathscroll list
//	mathscroll render [scene...] [--watch]
//	mathscroll diff before.yaml after.yaml
//	mathscroll init
package main

import (
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := newRootCmd()
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
