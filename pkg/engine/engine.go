package engine

import (
	"github.com/blindroute/blindroute/pkg/busregistry"
	"github.com/blindroute/blindroute/pkg/config"
	"github.com/blindroute/blindroute/pkg/elastic_client"
	"github.com/blindroute/blindroute/pkg/events"
	"github.com/blindroute/blindroute/pkg/metrics"
	"github.com/blindroute/blindroute/pkg/redis_client"
	"github.com/blindroute/blindroute/pkg/resolver"
	"github.com/blindroute/blindroute/pkg/session"
	"github.com/blindroute/blindroute/pkg/stations"
	"github.com/blindroute/blindroute/pkg/tmap"
	"github.com/rs/zerolog/log"
)

const stationSearchGoroutines = 5

// Engine holds the upstream clients and shared components built from configuration
type Engine struct {
	Config *config.Config

	Registry *busregistry.Client
	Planner  *tmap.Client
	Stations *stations.Searcher
	Resolver *resolver.Resolver
	Metrics  *metrics.Collector

	// Nil when redis is not configured
	Publisher *events.Publisher
}

// New connects the optional backing services and builds the engine components.
// Redis enables the registry cache and the navigation events queue, Elasticsearch
// enables indexing of unresolved legs.
func New(cfg *config.Config) (*Engine, error) {
	e := &Engine{
		Config:   cfg,
		Registry: busregistry.NewClient(cfg.BusAPIURL, cfg.BusAPIKeys, cfg.HTTPTimeout),
		Planner:  tmap.NewClient(cfg.TMapURL, cfg.TMapAppKey, cfg.HTTPTimeout),
		Metrics:  metrics.NewCollector(),
	}

	if cfg.Redis.Enabled() {
		if err := redis_client.Connect(cfg.Redis); err != nil {
			return nil, err
		}

		e.Registry.Cache = busregistry.NewCache(redis_client.Client)

		publisher, err := events.NewPublisher(redis_client.QueueConnection)
		if err != nil {
			return nil, err
		}
		e.Publisher = publisher
	} else {
		log.Info().Msg("Redis not configured, registry cache and navigation events disabled")
	}

	if err := elastic_client.Connect(cfg.Elasticsearch); err != nil {
		return nil, err
	}

	e.Stations = &stations.Searcher{
		Registry:      e.Registry,
		MaxGoroutines: stationSearchGoroutines,
	}

	e.Resolver = &resolver.Resolver{
		Planner:  e.Planner,
		Registry: e.Registry,
		Metrics:  e.Metrics,
	}
	if cfg.Elasticsearch.Address != "" {
		e.Resolver.Reporter = elastic_client.NewUnresolvedLegReporter()
	}

	return e, nil
}

// NewNavigator builds a navigator for one rider announcing through announcer
func (e *Engine) NewNavigator(announcer session.Announcer) *session.Navigator {
	navigator := &session.Navigator{
		Stations:      e.Stations,
		Resolver:      e.Resolver,
		Arrivals:      e.Registry,
		Positions:     e.Registry,
		Announcer:     announcer,
		Metrics:       e.Metrics,
		RefreshRate:   e.Config.PollInterval,
		BoardingDelay: e.Config.BoardingDelay,
	}

	// A nil *events.Publisher must not end up inside the interface
	if e.Publisher != nil {
		navigator.Publisher = e.Publisher
	}

	return navigator
}

// Close flushes pending Elasticsearch documents
func (e *Engine) Close() {
	elastic_client.WaitUntilQueueEmpty()
}
