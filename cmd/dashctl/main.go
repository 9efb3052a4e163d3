// dashctl resolves and lays out dashboards offline.
//
// It reads a registry export (the payloads published on the graydash
// registry topics, keyed by kind) and an optional Lovelace document, runs
// them through the same pipeline graydash serves, and prints the result.
// It is meant for checking a dashboard before pushing it to a live site.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
