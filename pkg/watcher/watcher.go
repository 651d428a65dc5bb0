package watcher

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/blindroute/blindroute/pkg/busregistry"
	"github.com/blindroute/blindroute/pkg/metrics"
	"github.com/rs/zerolog"
)

const DefaultRefreshRate = 15 * time.Second

type ArrivalSource interface {
	GetArrival(ctx context.Context, arsID string, busRouteID string) (busregistry.ArrivalItem, error)
}

type PositionSource interface {
	GetBusPosition(ctx context.Context, vehID string) (busregistry.BusPositionItem, error)
}

// singleFlight admits at most one poll at a time
type singleFlight struct {
	inFlight atomic.Bool
}

func (s *singleFlight) acquire() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

func (s *singleFlight) release() {
	s.inFlight.Store(false)
}

// run polls immediately and then every refreshRate until poll reports completion
// or the context is cancelled
func run(ctx context.Context, logger zerolog.Logger, collector *metrics.Collector, refreshRate time.Duration, poll func(ctx context.Context) bool) {
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}

	collector.WatchStarted()
	defer collector.WatchStopped()

	logger.Info().Dur("refreshrate", refreshRate).Msg("Registering new watcher")

	for {
		startTime := time.Now()

		if poll(ctx) {
			logger.Info().Msg("Watcher finished")
			return
		}

		executionDuration := time.Since(startTime)
		waitTime := refreshRate - executionDuration
		if waitTime < 0 {
			waitTime = 0
		}

		timer := time.NewTimer(waitTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info().Msg("Watcher cancelled")
			return
		case <-timer.C:
		}
	}
}
