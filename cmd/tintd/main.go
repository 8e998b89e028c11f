// tintd - a wallpaper-driven theme daemon
//
// tintd derives colour themes from the active desktop wallpaper and applies
// them to the desktop shell's appearance settings.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/tintd/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
