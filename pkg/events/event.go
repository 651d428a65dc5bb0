package events

import (
	"encoding/json"
	"time"
)

const QueueName = "navigation-events"

type Type string

const (
	TypeBoarded       Type = "Boarded"
	TypeAlighted      Type = "Alighted"
	TypeTripFinished  Type = "TripFinished"
	TypeTripAbandoned Type = "TripAbandoned"
)

// NavigationEvent is published whenever the rider's trip reaches a milestone
type NavigationEvent struct {
	Type Type `json:"type"`

	DeviceToken string `json:"deviceToken,omitempty"`

	BusRouteNm string `json:"busRouteNm,omitempty"`
	StationNm  string `json:"stationNm,omitempty"`
	VehID      string `json:"vehId,omitempty"`
	LegIndex   int    `json:"legIndex"`
	LegCount   int    `json:"legCount"`

	Timestamp time.Time `json:"timestamp"`
}

func Decode(payload []byte) (NavigationEvent, error) {
	var event NavigationEvent
	err := json.Unmarshal(payload, &event)

	return event, err
}
