package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"DigitBoard/internal/board"
	"DigitBoard/internal/config"
	"DigitBoard/internal/net"
	"DigitBoard/internal/predict"
	"DigitBoard/internal/render"
	"DigitBoard/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("set up logging")
	}

	endpoint := cfg.Endpoint
	if endpoint == config.EndpointAuto {
		log.Info().Dur("timeout", cfg.DiscoveryTimeout).Msg("looking for a prediction service")
		endpoint, err = net.Discover(context.Background(), cfg.DiscoveryTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("discover prediction service")
		}
	}

	client, err := predict.NewClient(endpoint, nil, cfg.RequestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("create prediction client")
	}
	log.Info().Str("endpoint", client.Endpoint()).Str("error_policy", cfg.ErrorPolicy).Msg("starting")

	if err := render.Setup(); err != nil {
		log.Fatal().Err(err).Msg("set up charts")
	}
	b := board.New(client, board.Options{
		StrokeWidth: cfg.StrokeWidth,
		KeepOnError: cfg.KeepOnError(),
	})
	ui.RunApp(b, client)
}
