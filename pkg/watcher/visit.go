package watcher

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/blindroute/blindroute/pkg/metrics"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/rs/zerolog/log"
)

// ClassifyVisit places a vehicle stop order relative to the leg window.
// A negative stop order means the registry has no position for the vehicle.
func ClassifyVisit(forwarding transit.Forwarding, stopOrder int) transit.StationVisitStatus {
	if stopOrder < 0 {
		return transit.ServiceEndedVisit()
	}

	status := transit.StationVisitStatus{
		CurrentStopOrder: strconv.Itoa(stopOrder),
	}

	if !forwarding.InWindow(stopOrder) {
		status.Msg = transit.VisitArrived
		status.State = transit.VisitStateArrived
		return status
	}

	status.State = transit.VisitStateInTransit
	if gap := forwarding.ToStationSeq - stopOrder; gap > 1 {
		status.Msg = fmt.Sprintf("%d개의 정류장이 남았습니다.", gap)
	} else {
		status.Msg = transit.VisitArrivingSoon
	}

	return status
}

// StationVisitWatcher follows the boarded vehicle until it leaves the leg window
type StationVisitWatcher struct {
	Forwarding  transit.Forwarding
	VehID       string
	Source      PositionSource
	RefreshRate time.Duration
	Metrics     *metrics.Collector

	OnUpdate  func(status transit.StationVisitStatus)
	OnArrived func()

	flight singleFlight

	mu        sync.Mutex
	lastState transit.StationVisitStatus
	arrived   bool
}

func NewStationVisitWatcher(forwarding transit.Forwarding, vehID string, source PositionSource, refreshRate time.Duration) *StationVisitWatcher {
	return &StationVisitWatcher{
		Forwarding:  forwarding,
		VehID:       vehID,
		Source:      source,
		RefreshRate: refreshRate,
	}
}

func (w *StationVisitWatcher) Run(ctx context.Context) {
	logger := log.With().
		Str("watcher", "visit").
		Str("busroute", w.Forwarding.BusRouteNm).
		Str("vehid", w.VehID).
		Int("from", w.Forwarding.FromStationSeq).
		Int("to", w.Forwarding.ToStationSeq).
		Logger()

	run(ctx, logger, w.Metrics, w.RefreshRate, w.Poll)
}

// Poll performs a single position query and reports whether the watch is complete
func (w *StationVisitWatcher) Poll(ctx context.Context) bool {
	if !w.flight.acquire() {
		w.Metrics.TickSkipped("visit")
		return false
	}
	defer w.flight.release()

	if w.Arrived() {
		return true
	}

	w.Metrics.Poll("visit")
	position, err := w.Source.GetBusPosition(ctx, w.VehID)

	if ctx.Err() != nil {
		return true
	}

	stopOrder := -1
	if err != nil {
		w.Metrics.PollFailed("visit")
		log.Warn().
			Err(err).
			Str("busroute", w.Forwarding.BusRouteNm).
			Str("vehid", w.VehID).
			Msg("Failed to get bus position")
	} else if order, convErr := strconv.Atoi(position.StOrd); convErr == nil {
		stopOrder = order
	}

	status := ClassifyVisit(w.Forwarding, stopOrder)

	w.mu.Lock()
	w.lastState = status
	if status.State == transit.VisitStateArrived {
		w.arrived = true
	}
	w.mu.Unlock()

	if status.State == transit.VisitStateArrived {
		log.Info().
			Str("busroute", w.Forwarding.BusRouteNm).
			Str("vehid", w.VehID).
			Str("stoporder", status.CurrentStopOrder).
			Msg("Vehicle reached the alighting stop")

		w.Metrics.Arrived()
		if w.OnArrived != nil {
			w.OnArrived()
		}
		return true
	}

	if w.OnUpdate != nil {
		w.OnUpdate(status)
	}
	return false
}

func (w *StationVisitWatcher) Status() transit.StationVisitStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lastState
}

func (w *StationVisitWatcher) Arrived() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.arrived
}
