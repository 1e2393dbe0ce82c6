// Package main is the entry point for the MindCare server.
package main

import (
	"os"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/app"
)

// Set at build time via ldflags.
var version = "dev"

func main() {
	if version != "dev" {
		app.BuildVersion = version
	}

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
