package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/blindroute/blindroute/pkg/busregistry"
	"github.com/blindroute/blindroute/pkg/metrics"
	"github.com/blindroute/blindroute/pkg/tmap"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/blindroute/blindroute/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
	"golang.org/x/exp/slices"
)

type Planner interface {
	GetTransitRoutes(ctx context.Context, start transit.Coordinates, destination transit.Coordinates) ([]tmap.Itinerary, error)
}

type Registry interface {
	FindBusRoute(ctx context.Context, busRouteNm string) (busregistry.RouteItem, error)
	GetStationsByRoute(ctx context.Context, busRouteID string) ([]busregistry.RouteStationItem, error)
}

// Reporter receives every bus leg the registry could not be reconciled with
type Reporter interface {
	ReportUnresolvedLeg(leg UnresolvedLeg)
}

type UnresolvedLeg struct {
	BusRouteNm     string    `json:"busRouteNm"`
	FirstStationNm string    `json:"firstStationNm"`
	NextStationNm  string    `json:"nextStationNm"`
	LastStationNm  string    `json:"lastStationNm"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}

var (
	errTooFewStops    = errors.New("leg has fewer than two stops")
	errNoStationMatch = errors.New("no adjacent station pair matches the leg")
)

// Resolver turns planner itineraries into routings of registry-native bus legs
type Resolver struct {
	Planner  Planner
	Registry Registry

	Reporter Reporter
	Metrics  *metrics.Collector
}

func (r *Resolver) Resolve(ctx context.Context, start transit.Station, destination transit.Station) ([]transit.Routing, error) {
	itineraries, err := r.Planner.GetTransitRoutes(ctx, start.Coordinates(), destination.Coordinates())
	if err != nil {
		return nil, fmt.Errorf("plan %s -> %s: %w", start.StNm, destination.StNm, err)
	}

	itineraries = slices.DeleteFunc(slices.Clone(itineraries), func(itinerary tmap.Itinerary) bool {
		return itinerary.PathType != tmap.PathTypeTransit
	})

	resolved := iter.Map(itineraries, func(itinerary *tmap.Itinerary) transit.Routing {
		return r.resolveItinerary(ctx, *itinerary)
	})

	var routings []transit.Routing
	for _, routing := range resolved {
		if len(routing.Forwarding) > 0 {
			routings = append(routings, routing)
		}
	}

	log.Info().
		Str("start", start.StNm).
		Str("destination", destination.StNm).
		Int("itineraries", len(itineraries)).
		Int("routings", len(routings)).
		Msg("Resolved routings")

	return routings, nil
}

func (r *Resolver) resolveItinerary(ctx context.Context, itinerary tmap.Itinerary) transit.Routing {
	legs := slices.Clone(itinerary.Legs)
	util.InPlaceFilter(&legs, func(leg tmap.Leg) bool {
		return leg.Mode == tmap.ModeBus
	})

	type legResult struct {
		forwarding transit.Forwarding
		err        error
	}

	// Legs resolve in parallel; the route then station lookups inside a leg stay sequential
	results := iter.Map(legs, func(leg *tmap.Leg) legResult {
		forwarding, err := r.resolveLeg(ctx, *leg)
		return legResult{forwarding: forwarding, err: err}
	})

	routing := transit.Routing{
		Fare:       itinerary.Fare.Regular.TotalFare,
		Time:       itinerary.TotalTime,
		Forwarding: []transit.Forwarding{},
	}

	for i, result := range results {
		if result.err == nil {
			routing.Forwarding = append(routing.Forwarding, result.forwarding)
			r.Metrics.LegResolved()
			continue
		}

		routing.UnresolvedLegs++
		r.Metrics.LegUnresolved()
		r.report(legs[i], result.err)
	}

	return routing
}

func (r *Resolver) resolveLeg(ctx context.Context, leg tmap.Leg) (transit.Forwarding, error) {
	stops := leg.Stops()
	if len(stops) < 2 {
		return transit.Forwarding{}, errTooFewStops
	}

	busRouteNm := leg.RouteNumber()
	firstStationNm := stops[0].StationName
	nextStationNm := stops[1].StationName
	lastStationNm := stops[len(stops)-1].StationName

	busRoute, err := r.Registry.FindBusRoute(ctx, busRouteNm)
	if err != nil {
		return transit.Forwarding{}, err
	}

	stations, err := r.Registry.GetStationsByRoute(ctx, busRoute.BusRouteID)
	if err != nil {
		return transit.Forwarding{}, err
	}

	index := MatchStationPair(stations, firstStationNm, nextStationNm)
	if index < 0 {
		return transit.Forwarding{}, errNoStationMatch
	}
	station := stations[index]

	fromSeq, err := strconv.Atoi(station.Seq)
	if err != nil {
		return transit.Forwarding{}, fmt.Errorf("station %s has invalid sequence %q: %w", station.StationNm, station.Seq, err)
	}

	forwarding := transit.Forwarding{
		FromStationNm:    firstStationNm,
		FromStationSeq:   fromSeq,
		FromStationArsID: station.ArsID,
		ToStationNm:      lastStationNm,
		ToStationSeq:     fromSeq + len(stops) - 1,
		BusRouteNm:       busRouteNm,
		BusRouteID:       busRoute.BusRouteID,
		BusRouteDir:      station.Direction,
	}

	if err := forwarding.Validate(); err != nil {
		return transit.Forwarding{}, err
	}

	return forwarding, nil
}

// MatchStationPair finds the index i where stations[i] and stations[i+1] carry the
// two given names. A single name is not enough: loop routes and opposite directions
// can share a stop name.
func MatchStationPair(stations []busregistry.RouteStationItem, stationNm string, nextStationNm string) int {
	for i := 0; i+1 < len(stations); i++ {
		if stations[i].StationNm == stationNm && stations[i+1].StationNm == nextStationNm {
			return i
		}
	}

	return -1
}

func (r *Resolver) report(leg tmap.Leg, err error) {
	unresolved := UnresolvedLeg{
		BusRouteNm: leg.RouteNumber(),
		Reason:     err.Error(),
		Timestamp:  time.Now(),
	}

	if stops := leg.Stops(); len(stops) > 0 {
		unresolved.FirstStationNm = stops[0].StationName
		unresolved.LastStationNm = stops[len(stops)-1].StationName
		if len(stops) > 1 {
			unresolved.NextStationNm = stops[1].StationName
		}
	}

	log.Warn().
		Str("busroute", unresolved.BusRouteNm).
		Str("from", unresolved.FirstStationNm).
		Str("next", unresolved.NextStationNm).
		Err(err).
		Msg("Dropped bus leg that could not be matched against the registry")

	if r.Reporter != nil {
		r.Reporter.ReportUnresolvedLeg(unresolved)
	}
}
