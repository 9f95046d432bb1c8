package main

import (
	"github.com/projectdiscovery/arpx/internal/runner"
	"github.com/projectdiscovery/gologger"
)

func main() {
	options := runner.ParseOptions()

	arpxRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}
	defer arpxRunner.Close()

	if err := arpxRunner.Run(); err != nil {
		gologger.Fatal().Msgf("Could not run arpx: %s\n", err)
	}
}
