// Command digitctl sends a digit image to the prediction service from the
// terminal and prints the result the way the window would show it.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"DigitBoard/internal/config"
)

func main() {
	if err := config.SetupLogging("warn"); err != nil {
		log.Fatal().Err(err).Msg("set up logging")
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
