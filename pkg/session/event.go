package session

import (
	"github.com/blindroute/blindroute/pkg/events"
	"github.com/blindroute/blindroute/pkg/transit"
)

type EventType string

const (
	// Rider gestures
	EventConfirm EventType = "confirm"
	EventBack    EventType = "back"
	EventBrowse  EventType = "browse"
	EventRepeat  EventType = "repeat"
	EventAbandon EventType = "abandon"

	// Lookup results
	EventStationsLoaded EventType = "stationsLoaded"
	EventRoutingsLoaded EventType = "routingsLoaded"
	EventLookupFailed   EventType = "lookupFailed"

	// Watchers and timers
	EventArrivalUpdate    EventType = "arrivalUpdate"
	EventBoarded          EventType = "boarded"
	EventBoardingComplete EventType = "boardingComplete"
	EventVisitUpdate      EventType = "visitUpdate"
	EventArrived          EventType = "arrived"
)

type Event struct {
	Type EventType

	// Index selects a candidate station or routing for confirm and browse
	Index int

	Stations []transit.Station
	Routings []transit.Routing
	Arrival  transit.BusArrivalStatus
	Visit    transit.StationVisitStatus
	VehID    string
	Err      error
}

type EffectType string

const (
	EffectAnnounce         EffectType = "announce"
	EffectSearchStations   EffectType = "searchStations"
	EffectResolveRoutes    EffectType = "resolveRoutes"
	EffectWatchArrival     EffectType = "watchArrival"
	EffectWatchVisit       EffectType = "watchVisit"
	EffectStopWatch        EffectType = "stopWatch"
	EffectScheduleBoarding EffectType = "scheduleBoarding"
	EffectPublish          EffectType = "publish"
	EffectExit             EffectType = "exit"
)

// Effect is work a transition asks the executor to perform
type Effect struct {
	Type EffectType

	Text  string
	Query string

	Start       transit.Station
	Destination transit.Station

	Forwarding transit.Forwarding
	VehID      string

	Event *events.NavigationEvent
}

func announce(text string) Effect {
	return Effect{Type: EffectAnnounce, Text: text}
}
