package main

import (
	"os"
	"time"

	"github.com/blindroute/blindroute/pkg/api"
	"github.com/blindroute/blindroute/pkg/engine"
	"github.com/blindroute/blindroute/pkg/events"
	"github.com/blindroute/blindroute/pkg/notify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("BLINDROUTE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("BLINDROUTE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "blindroute",
		Description: "Bus navigation engine for visually impaired riders",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			engine.RegisterResolveCLI(),
			engine.RegisterWatchCLI(),
			notify.RegisterCLI(),
			events.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
