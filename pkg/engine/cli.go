package engine

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blindroute/blindroute/pkg/config"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/blindroute/blindroute/pkg/watcher"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func setup() (*Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return New(cfg)
}

func RegisterResolveCLI() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve bus routings between two station names",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "start",
				Usage:    "Name of the boarding station",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "destination",
				Usage:    "Name of the destination station",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := c.Context

			starts, err := e.Stations.Search(ctx, c.String("start"))
			if err != nil {
				return fmt.Errorf("start station: %w", err)
			}
			destinations, err := e.Stations.Search(ctx, c.String("destination"))
			if err != nil {
				return fmt.Errorf("destination station: %w", err)
			}

			log.Info().
				Str("start", starts[0].StNm).
				Str("startdir", starts[0].StDir).
				Str("destination", destinations[0].StNm).
				Str("destinationdir", destinations[0].StDir).
				Msg("Resolving between first matching stations")

			routings, err := e.Resolver.Resolve(ctx, starts[0], destinations[0])
			if err != nil {
				return err
			}

			for _, routing := range routings {
				pretty.Println(routing)
			}

			return nil
		},
	}
}

func RegisterWatchCLI() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow a bus in real time",
		Subcommands: []*cli.Command{
			{
				Name:  "arrival",
				Usage: "watch a route at a stop until a bus departs from it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "ars-id",
						Usage:    "Registry number of the boarding stop",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "bus-route-id",
						Usage:    "Registry id of the route",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					e, err := setup()
					if err != nil {
						return err
					}
					defer e.Close()

					forwarding := transit.Forwarding{
						FromStationArsID: c.String("ars-id"),
						BusRouteID:       c.String("bus-route-id"),
					}

					w := watcher.NewArrivalWatcher(forwarding, e.Registry, e.Config.PollInterval)
					w.Metrics = e.Metrics
					w.OnUpdate = func(status transit.BusArrivalStatus) {
						pretty.Println(status)
					}
					w.OnBoarded = func(vehID string) {
						log.Info().Str("vehid", vehID).Msg("Bus departed with rider")
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					w.Run(ctx)

					return nil
				},
			},
			{
				Name:  "visit",
				Usage: "watch a boarded bus until it reaches the alighting stop",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "veh-id",
						Usage:    "Registry id of the vehicle",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "from-seq",
						Usage:    "Route sequence of the boarding stop",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "to-seq",
						Usage:    "Route sequence of the alighting stop",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					e, err := setup()
					if err != nil {
						return err
					}
					defer e.Close()

					forwarding := transit.Forwarding{
						FromStationSeq: c.Int("from-seq"),
						ToStationSeq:   c.Int("to-seq"),
					}

					w := watcher.NewStationVisitWatcher(forwarding, c.String("veh-id"), e.Registry, e.Config.PollInterval)
					w.Metrics = e.Metrics
					w.OnUpdate = func(status transit.StationVisitStatus) {
						pretty.Println(status)
					}
					w.OnArrived = func() {
						log.Info().Str("vehid", c.String("veh-id")).Msg("Bus reached the alighting stop")
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					w.Run(ctx)

					return nil
				},
			},
		},
	}
}
