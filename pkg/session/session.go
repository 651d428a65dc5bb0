package session

import (
	"errors"

	"github.com/blindroute/blindroute/pkg/transit"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrNoSession         = errors.New("no active navigation session")
	ErrInvalidLocations  = errors.New("start and destination are required")

	ErrNoStationFound = errors.New("검색된 정류장이 없습니다")
	ErrNoRouteFound   = errors.New("검색된 경로가 없습니다")
)

type Step string

const (
	StepLocationConfirm       Step = "locationConfirm"
	StepSelectStart           Step = "selectStart"
	StepSelectDestination     Step = "selectDestination"
	StepRoutingConfirm        Step = "routingConfirm"
	StepReservationBusConfirm Step = "reservationBusConfirm"
	StepWaitingBus            Step = "waitingBus"
	StepReservationDesConfirm Step = "reservationDesConfirm"
	StepWaitingDestination    Step = "waitingDestination"
)

func (s Step) Title() string {
	switch s {
	case StepLocationConfirm:
		return "출발지 및 도착지 확인"
	case StepSelectStart:
		return "출발지 선택"
	case StepSelectDestination:
		return "도착지 선택"
	case StepRoutingConfirm:
		return "경로 선택"
	case StepReservationBusConfirm:
		return "버스 예약"
	case StepWaitingBus:
		return "버스 대기"
	case StepReservationDesConfirm:
		return "하차 예약"
	case StepWaitingDestination:
		return "하차 대기"
	default:
		return "알 수 없는 단계"
	}
}

// Watching reports whether a watcher belongs to the step
func (s Step) Watching() bool {
	return s == StepWaitingBus || s == StepWaitingDestination
}

// Session is the state of one rider's trip. It is a plain value: every change
// goes through Transition.
type Session struct {
	Step Step `json:"step"`

	StartName       string `json:"startName"`
	DestinationName string `json:"destinationName"`
	DeviceToken     string `json:"-"`

	Loading    bool              `json:"loading"`
	Candidates []transit.Station `json:"candidates,omitempty"`
	Routings   []transit.Routing `json:"routings,omitempty"`

	Start       *transit.Station `json:"start,omitempty"`
	Destination *transit.Station `json:"destination,omitempty"`
	Routing     *transit.Routing `json:"routing,omitempty"`
	LegIndex    int              `json:"legIndex"`

	Arrival *transit.BusArrivalStatus   `json:"arrival,omitempty"`
	Visit   *transit.StationVisitStatus `json:"visit,omitempty"`

	// Last vehicle reported as approaching, kept across failed polls
	IncomingVehID string `json:"incomingVehId,omitempty"`
	BoardedVehID  string `json:"boardedVehId,omitempty"`
	Boarding      bool   `json:"boarding"`

	Finished bool `json:"finished"`
}

// New creates a session at location confirmation along with its entry effects
func New(startName string, destinationName string, deviceToken string) (Session, []Effect) {
	s := Session{
		StartName:       startName,
		DestinationName: destinationName,
		DeviceToken:     deviceToken,
	}

	return enter(s, StepLocationConfirm)
}

func (s Session) CurrentLeg() (transit.Forwarding, bool) {
	if s.Routing == nil || s.LegIndex < 0 || s.LegIndex >= len(s.Routing.Forwarding) {
		return transit.Forwarding{}, false
	}

	return s.Routing.Forwarding[s.LegIndex], true
}

func (s Session) IsLastLeg() bool {
	return s.Routing != nil && s.Routing.IsLastLeg(s.LegIndex)
}
