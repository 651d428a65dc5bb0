package notify

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blindroute/blindroute/pkg/config"
	"github.com/blindroute/blindroute/pkg/consumer"
	"github.com/blindroute/blindroute/pkg/events"
	"github.com/blindroute/blindroute/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: "Provides the push notification system",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run notify consumers for navigation events",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					if err := redis_client.Connect(cfg.Redis); err != nil {
						return err
					}

					pushManager := &PushManager{}
					if err := pushManager.Setup(context.Background(), cfg.FirebaseServiceAccount); err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       events.QueueName,
						NumberConsumers: 2,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewNotifyBatchConsumer(pushManager),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
		},
	}
}
