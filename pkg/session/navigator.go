package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/blindroute/blindroute/pkg/events"
	"github.com/blindroute/blindroute/pkg/metrics"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/blindroute/blindroute/pkg/watcher"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

const defaultBoardingDelay = 8 * time.Second

// Announcer delivers rider facing text. Implementations must not block.
type Announcer interface {
	Announce(ctx context.Context, text string)
}

type StationSearcher interface {
	Search(ctx context.Context, stationName string) ([]transit.Station, error)
}

type RouteResolver interface {
	Resolve(ctx context.Context, start transit.Station, destination transit.Station) ([]transit.Routing, error)
}

type EventPublisher interface {
	Publish(event events.NavigationEvent) error
}

// Navigator executes the effects of session transitions for a single rider.
// Results of background work are tagged with the generation they were started
// in and dropped once the session has moved on.
type Navigator struct {
	Stations  StationSearcher
	Resolver  RouteResolver
	Arrivals  watcher.ArrivalSource
	Positions watcher.PositionSource

	Announcer Announcer
	Publisher EventPublisher
	Metrics   *metrics.Collector

	RefreshRate   time.Duration
	BoardingDelay time.Duration

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	session     *Session
	generation  uint64
	cancelWatch context.CancelFunc
	boardTimer  *time.Timer
	done        chan struct{}
}

// Start opens a new session, abandoning any session still in progress
func (n *Navigator) Start(ctx context.Context, startName string, destinationName string, deviceToken string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session != nil && !n.session.Finished {
		n.apply(Event{Type: EventAbandon})
	}

	if startName == "" || destinationName == "" {
		if n.Announcer != nil {
			n.Announcer.Announce(ctx, promptInvalidLocations)
		}
		return ErrInvalidLocations
	}

	n.ctx, n.cancel = context.WithCancel(ctx)
	n.done = make(chan struct{})

	s, effects := New(startName, destinationName, deviceToken)
	n.session = &s
	n.generation++

	log.Info().Str("start", startName).Str("destination", destinationName).Msg("Navigation session started")

	n.execute(effects)

	return nil
}

// Dispatch applies a rider gesture to the active session
func (n *Navigator) Dispatch(e Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session == nil {
		return ErrNoSession
	}

	return n.apply(e)
}

func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session != nil && !n.session.Finished {
		n.apply(Event{Type: EventAbandon})
	}
}

// Snapshot returns a deep copy of the session
func (n *Navigator) Snapshot() (Session, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session == nil {
		return Session{}, ErrNoSession
	}

	var snapshot Session
	if err := copier.CopyWithOption(&snapshot, n.session, copier.Option{DeepCopy: true}); err != nil {
		return Session{}, err
	}

	return snapshot, nil
}

// Done is closed when the current session finishes. Without a session it is already closed.
func (n *Navigator) Done() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return n.done
}

// deliver applies an event produced by background work started in generation
func (n *Navigator) deliver(generation uint64, e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.session == nil || generation != n.generation {
		log.Debug().Str("event", string(e.Type)).Msg("Dropped stale session event")
		return
	}

	if err := n.apply(e); err != nil {
		log.Debug().Err(err).Msg("Ignored session event")
	}
}

func (n *Navigator) apply(e Event) error {
	from := *n.session

	next, effects, err := Transition(from, e)
	if err != nil {
		return err
	}

	*n.session = next

	if next.Step != from.Step || next.Finished != from.Finished {
		n.generation++
		n.Metrics.Transition(string(from.Step), string(next.Step))

		log.Info().
			Str("from", string(from.Step)).
			Str("to", string(next.Step)).
			Str("event", string(e.Type)).
			Int("leg", next.LegIndex).
			Bool("finished", next.Finished).
			Msg("Navigation step changed")
	}

	n.execute(effects)

	return nil
}

func (n *Navigator) execute(effects []Effect) {
	for _, effect := range effects {
		switch effect.Type {
		case EffectAnnounce:
			if n.Announcer != nil {
				n.Announcer.Announce(n.ctx, effect.Text)
			}

		case EffectSearchStations:
			n.searchStations(effect.Query)

		case EffectResolveRoutes:
			n.resolveRoutes(effect.Start, effect.Destination)

		case EffectWatchArrival:
			n.watchArrival(effect.Forwarding)

		case EffectWatchVisit:
			n.watchVisit(effect.Forwarding, effect.VehID)

		case EffectStopWatch:
			n.stopWatch()

		case EffectScheduleBoarding:
			n.scheduleBoarding()

		case EffectPublish:
			n.publish(*effect.Event)

		case EffectExit:
			n.stopWatch()
			if n.cancel != nil {
				n.cancel()
			}
			if n.done != nil {
				close(n.done)
			}
			log.Info().Msg("Navigation session finished")
		}
	}
}

func (n *Navigator) searchStations(query string) {
	generation := n.generation
	ctx := n.ctx

	go func() {
		stations, err := n.Stations.Search(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("Station search failed")
			n.deliver(generation, Event{Type: EventLookupFailed, Err: err})
			return
		}

		n.deliver(generation, Event{Type: EventStationsLoaded, Stations: stations})
	}()
}

func (n *Navigator) resolveRoutes(start transit.Station, destination transit.Station) {
	generation := n.generation
	ctx := n.ctx

	go func() {
		routings, err := n.Resolver.Resolve(ctx, start, destination)
		if err != nil {
			log.Warn().Err(err).Str("start", start.StNm).Str("destination", destination.StNm).Msg("Route resolution failed")
			n.deliver(generation, Event{Type: EventLookupFailed, Err: err})
			return
		}

		n.deliver(generation, Event{Type: EventRoutingsLoaded, Routings: routings})
	}()
}

func (n *Navigator) watchArrival(forwarding transit.Forwarding) {
	n.stopWatch()

	generation := n.generation
	ctx, cancel := context.WithCancel(n.ctx)
	n.cancelWatch = cancel

	w := watcher.NewArrivalWatcher(forwarding, n.Arrivals, n.RefreshRate)
	w.Metrics = n.Metrics
	w.OnUpdate = func(status transit.BusArrivalStatus) {
		n.deliver(generation, Event{Type: EventArrivalUpdate, Arrival: status})
	}
	w.OnBoarded = func(vehID string) {
		n.deliver(generation, Event{Type: EventBoarded, VehID: vehID})
	}

	go w.Run(ctx)
}

func (n *Navigator) watchVisit(forwarding transit.Forwarding, vehID string) {
	n.stopWatch()

	generation := n.generation
	ctx, cancel := context.WithCancel(n.ctx)
	n.cancelWatch = cancel

	w := watcher.NewStationVisitWatcher(forwarding, vehID, n.Positions, n.RefreshRate)
	w.Metrics = n.Metrics
	w.OnUpdate = func(status transit.StationVisitStatus) {
		n.deliver(generation, Event{Type: EventVisitUpdate, Visit: status})
	}
	w.OnArrived = func() {
		n.deliver(generation, Event{Type: EventArrived})
	}

	go w.Run(ctx)
}

func (n *Navigator) stopWatch() {
	if n.cancelWatch != nil {
		n.cancelWatch()
		n.cancelWatch = nil
	}

	if n.boardTimer != nil {
		n.boardTimer.Stop()
		n.boardTimer = nil
	}
}

func (n *Navigator) scheduleBoarding() {
	delay := n.BoardingDelay
	if delay <= 0 {
		delay = defaultBoardingDelay
	}

	generation := n.generation
	n.boardTimer = time.AfterFunc(delay, func() {
		n.deliver(generation, Event{Type: EventBoardingComplete})
	})
}

func (n *Navigator) publish(event events.NavigationEvent) {
	if n.Publisher == nil {
		return
	}

	if err := n.Publisher.Publish(event); err != nil {
		log.Warn().Err(err).Str("type", string(event.Type)).Msg("Failed to publish navigation event")
	}
}

// IsInvalidTransition reports whether err is a rejected gesture rather than a failure
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
