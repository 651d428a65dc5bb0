package events

import (
	"github.com/blindroute/blindroute/pkg/config"
	"github.com/blindroute/blindroute/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides tools for the navigation events queue",
		Subcommands: []*cli.Command{
			{
				Name:  "test-event",
				Usage: "publish a test navigation event",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "type",
						Value: string(TypeBoarded),
						Usage: "Event type to publish",
					},
					&cli.StringFlag{
						Name:  "device-token",
						Usage: "Device token the notification should be pushed to",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					if err := redis_client.Connect(cfg.Redis); err != nil {
						return err
					}

					publisher, err := NewPublisher(redis_client.QueueConnection)
					if err != nil {
						log.Fatal().Err(err).Msg("Failed to open navigation events queue")
					}

					event := NavigationEvent{
						Type:        Type(c.String("type")),
						DeviceToken: c.String("device-token"),
						BusRouteNm:  "421",
						StationNm:   "고려대앞",
						VehID:       "111033115",
						LegIndex:    0,
						LegCount:    1,
					}

					return publisher.Publish(event)
				},
			},
		},
	}
}
