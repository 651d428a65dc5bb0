package watcher

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/blindroute/blindroute/pkg/busregistry"
	"github.com/blindroute/blindroute/pkg/metrics"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/rs/zerolog/log"
)

var (
	firstArrivalRegex  = regexp.MustCompile(`\d+분\d+초후|곧 도착`)
	secondArrivalRegex = regexp.MustCompile(`\d+분\d+초후`)
)

// ParseArrival converts the registry's free text predictions into rider facing messages.
// A slot without a recognised prediction carries no vehicle id.
func ParseArrival(item busregistry.ArrivalItem) transit.BusArrivalStatus {
	status := transit.ServiceEndedArrival()
	status.Msg2 = ""

	if item.ArrMsg1 == transit.RegistryServiceEnded {
		return status
	}

	switch arrival := firstArrivalRegex.FindString(item.ArrMsg1); arrival {
	case "":
		status.Msg1 = transit.ArrivalNoInformation
	case transit.RegistryImminentToken:
		status.Msg1 = transit.ArrivalImminent
		status.VehID1 = item.VehID1
	default:
		status.Msg1 = fmt.Sprintf("%s에 도착합니다", arrival)
		status.VehID1 = item.VehID1
	}

	if status.VehID1 == "" || item.ArrMsg2 == transit.RegistryServiceEnded {
		return status
	}

	if arrival := secondArrivalRegex.FindString(item.ArrMsg2); arrival != "" {
		status.Msg2 = fmt.Sprintf("다음 버스는 %s에 도착합니다", arrival)
		status.VehID2 = item.VehID2
	} else {
		status.Msg2 = transit.NextArrivalNoInfo
	}

	return status
}

// ArrivalWatcher follows one route's predictions at the boarding stop and reports
// boarding once the tracked vehicle id is replaced by another.
type ArrivalWatcher struct {
	Forwarding  transit.Forwarding
	Source      ArrivalSource
	RefreshRate time.Duration
	Metrics     *metrics.Collector

	OnUpdate  func(status transit.BusArrivalStatus)
	OnBoarded func(vehID string)

	flight singleFlight

	mu        sync.Mutex
	tracked   string
	lastState transit.BusArrivalStatus
	boarded   bool
}

func NewArrivalWatcher(forwarding transit.Forwarding, source ArrivalSource, refreshRate time.Duration) *ArrivalWatcher {
	return &ArrivalWatcher{
		Forwarding:  forwarding,
		Source:      source,
		RefreshRate: refreshRate,
	}
}

func (w *ArrivalWatcher) Run(ctx context.Context) {
	logger := log.With().
		Str("watcher", "arrival").
		Str("busroute", w.Forwarding.BusRouteNm).
		Str("arsid", w.Forwarding.FromStationArsID).
		Logger()

	run(ctx, logger, w.Metrics, w.RefreshRate, w.Poll)
}

// Poll performs a single query and reports whether the watch is complete.
// A call made while another is in flight is skipped.
func (w *ArrivalWatcher) Poll(ctx context.Context) bool {
	if !w.flight.acquire() {
		w.Metrics.TickSkipped("arrival")
		return false
	}
	defer w.flight.release()

	if w.Boarded() {
		return true
	}

	w.Metrics.Poll("arrival")
	item, err := w.Source.GetArrival(ctx, w.Forwarding.FromStationArsID, w.Forwarding.BusRouteID)

	// Responses arriving after cancellation must not reach the session
	if ctx.Err() != nil {
		return true
	}

	if err != nil {
		w.Metrics.PollFailed("arrival")
		log.Warn().
			Err(err).
			Str("busroute", w.Forwarding.BusRouteNm).
			Str("arsid", w.Forwarding.FromStationArsID).
			Msg("Failed to get bus arrival")

		w.update(transit.ServiceEndedArrival())
		return false
	}

	status := ParseArrival(item)

	w.mu.Lock()
	previous := w.tracked
	boarded := previous != "" && status.VehID1 != previous
	if boarded {
		w.boarded = true
	} else {
		w.tracked = status.VehID1
		w.lastState = status
	}
	w.mu.Unlock()

	if boarded {
		log.Info().
			Str("busroute", w.Forwarding.BusRouteNm).
			Str("vehid", previous).
			Msg("Tracked vehicle left the stop")

		w.Metrics.Boarded()
		if w.OnBoarded != nil {
			w.OnBoarded(previous)
		}
		return true
	}

	w.update(status)
	return false
}

func (w *ArrivalWatcher) update(status transit.BusArrivalStatus) {
	if w.OnUpdate != nil {
		w.OnUpdate(status)
	}
}

// Status returns the last successfully parsed arrival status
func (w *ArrivalWatcher) Status() transit.BusArrivalStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastState
}

func (w *ArrivalWatcher) TrackedVehicle() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.tracked
}

func (w *ArrivalWatcher) Boarded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.boarded
}
