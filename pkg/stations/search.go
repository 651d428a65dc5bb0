package stations

import (
	"context"
	"errors"
	"fmt"

	"github.com/blindroute/blindroute/pkg/busregistry"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
)

var ErrNoStationFound = errors.New("no station matches the name")

type Registry interface {
	GetStationsByName(ctx context.Context, stationName string) ([]busregistry.StationItem, error)
	GetArrivalsByStation(ctx context.Context, arsID string) ([]busregistry.ArrivalItem, error)
}

type Searcher struct {
	Registry Registry

	// Concurrent arrival lookups used for direction inference
	MaxGoroutines int
}

// Search looks stations up by name and labels each with the stop most of its
// routes head to next, which lets a rider tell the two sides of a road apart.
func (s *Searcher) Search(ctx context.Context, stationName string) ([]transit.Station, error) {
	items, err := s.Registry.GetStationsByName(ctx, stationName)
	if err != nil {
		return nil, fmt.Errorf("search station %q: %w", stationName, err)
	}
	if len(items) == 0 {
		return nil, ErrNoStationFound
	}

	mapper := iter.Mapper[busregistry.StationItem, transit.Station]{
		MaxGoroutines: s.MaxGoroutines,
	}

	stations := mapper.Map(items, func(item *busregistry.StationItem) transit.Station {
		return transit.Station{
			StID:  item.StID,
			StNm:  item.StNm,
			TmX:   item.TmX,
			TmY:   item.TmY,
			PosX:  item.PosX,
			PosY:  item.PosY,
			ArsID: item.ArsID,
			StDir: s.direction(ctx, item.ArsID),
		}
	})

	log.Debug().Str("name", stationName).Int("stations", len(stations)).Msg("Station search")

	return stations, nil
}

func (s *Searcher) direction(ctx context.Context, arsID string) string {
	if arsID == "" {
		return ""
	}

	arrivals, err := s.Registry.GetArrivalsByStation(ctx, arsID)
	if err != nil {
		log.Debug().Err(err).Str("arsid", arsID).Msg("Could not infer station direction")
		return ""
	}

	return MostFrequentNextStation(arrivals)
}

// MostFrequentNextStation returns the next stop named by most arrivals.
// Ties go to the name that reached the winning count first.
func MostFrequentNextStation(arrivals []busregistry.ArrivalItem) string {
	counts := map[string]int{}
	best, bestCount := "", 0

	for _, arrival := range arrivals {
		if arrival.NxtStn == "" {
			continue
		}

		counts[arrival.NxtStn]++
		if counts[arrival.NxtStn] > bestCount {
			best, bestCount = arrival.NxtStn, counts[arrival.NxtStn]
		}
	}

	return best
}
