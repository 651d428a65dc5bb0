package api

import (
	"github.com/blindroute/blindroute/pkg/config"
	"github.com/blindroute/blindroute/pkg/engine"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, overrides BLINDROUTE_LISTEN",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					e, err := engine.New(cfg)
					if err != nil {
						return err
					}
					defer e.Close()

					transcript := &Transcript{}
					navigator := e.NewNavigator(transcript)
					defer navigator.Stop()

					listen := cfg.Listen
					if c.String("listen") != "" {
						listen = c.String("listen")
					}

					return SetupServer(listen, Services{
						Stations:   e.Stations,
						Resolver:   e.Resolver,
						Registry:   e.Registry,
						Navigator:  navigator,
						Transcript: transcript,
						Metrics:    e.Metrics,
					})
				},
			},
		},
	}
}
