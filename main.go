// Package main is the entry point for the anitrack application.
package main

import (
	"github.com/samber/lo"

	"github.com/anitrack-cli/anitrack/cmd"
	"github.com/anitrack-cli/anitrack/config"
	"github.com/anitrack-cli/anitrack/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
