package session

import (
	"fmt"

	"github.com/blindroute/blindroute/pkg/events"
)

// Transition applies one event to a session. It performs no I/O: the returned
// effects describe the work the executor must carry out, in order.
func Transition(s Session, e Event) (Session, []Effect, error) {
	if s.Finished {
		return invalid(s, e)
	}

	switch e.Type {
	case EventAbandon:
		return abandon(s)
	case EventRepeat:
		return s, repeat(s), nil
	}

	switch s.Step {
	case StepLocationConfirm:
		return locationConfirm(s, e)
	case StepSelectStart:
		return selectStation(s, e, StepLocationConfirm, StepSelectDestination)
	case StepSelectDestination:
		return selectStation(s, e, StepSelectStart, StepRoutingConfirm)
	case StepRoutingConfirm:
		return routingConfirm(s, e)
	case StepReservationBusConfirm:
		return reservationBusConfirm(s, e)
	case StepWaitingBus:
		return waitingBus(s, e)
	case StepReservationDesConfirm:
		return reservationDesConfirm(s, e)
	case StepWaitingDestination:
		return waitingDestination(s, e)
	}

	return invalid(s, e)
}

func invalid(s Session, e Event) (Session, []Effect, error) {
	return s, nil, fmt.Errorf("%w: %s during %s", ErrInvalidTransition, e.Type, s.Step)
}

// enter moves the session to step and appends the step's entry effects
func enter(s Session, step Step, effects ...Effect) (Session, []Effect) {
	s.Step = step
	effects = append(effects, announce(step.Title()))

	switch step {
	case StepLocationConfirm:
		s.Loading = false
		s.Candidates = nil
		s.Routings = nil
		s.Start = nil
		s.Destination = nil
		s.Routing = nil
		s.LegIndex = 0
		effects = append(effects, announce(locationPrompt(s)))

	case StepSelectStart, StepSelectDestination:
		query := s.StartName
		if step == StepSelectDestination {
			query = s.DestinationName
		}

		s.Loading = true
		s.Candidates = nil
		effects = append(effects, Effect{Type: EffectSearchStations, Query: query})

	case StepRoutingConfirm:
		s.Loading = true
		s.Candidates = nil
		s.Routings = nil
		s.Routing = nil
		s.LegIndex = 0
		effects = append(effects, Effect{Type: EffectResolveRoutes, Start: *s.Start, Destination: *s.Destination})

	case StepReservationBusConfirm:
		s.Arrival = nil
		s.Visit = nil
		s.IncomingVehID = ""
		s.BoardedVehID = ""
		s.Boarding = false
		leg, _ := s.CurrentLeg()
		effects = append(effects, announce(reservationBusPrompt(leg)))

	case StepWaitingBus:
		s.Arrival = nil
		s.IncomingVehID = ""
		leg, _ := s.CurrentLeg()
		effects = append(effects, Effect{Type: EffectWatchArrival, Forwarding: leg})

	case StepReservationDesConfirm:
		leg, _ := s.CurrentLeg()
		effects = append(effects, announce(reservationDesPrompt(leg)))

	case StepWaitingDestination:
		s.Visit = nil
		leg, _ := s.CurrentLeg()
		effects = append(effects, Effect{Type: EffectWatchVisit, Forwarding: leg, VehID: s.BoardedVehID})
	}

	return s, effects
}

func moveTo(s Session, step Step, effects ...Effect) (Session, []Effect, error) {
	next, effects := enter(s, step, effects...)
	return next, effects, nil
}

func publish(s Session, eventType events.Type) Effect {
	event := &events.NavigationEvent{
		Type:        eventType,
		DeviceToken: s.DeviceToken,
		LegIndex:    s.LegIndex,
	}

	if s.Routing != nil {
		event.LegCount = len(s.Routing.Forwarding)
	}

	if leg, ok := s.CurrentLeg(); ok {
		event.BusRouteNm = leg.BusRouteNm
		event.StationNm = leg.ToStationNm
		event.VehID = s.BoardedVehID
	}

	return Effect{Type: EffectPublish, Event: event}
}

func exit(s Session, effects ...Effect) (Session, []Effect, error) {
	s.Finished = true
	s.Loading = false
	effects = append(effects, Effect{Type: EffectExit})

	return s, effects, nil
}

func abandon(s Session) (Session, []Effect, error) {
	var effects []Effect
	if s.Step.Watching() || s.Boarding {
		effects = append(effects, Effect{Type: EffectStopWatch})
	}
	effects = append(effects, publish(s, events.TypeTripAbandoned), announce(promptReturnToChat))

	return exit(s, effects...)
}

func repeat(s Session) []Effect {
	leg, _ := s.CurrentLeg()

	switch {
	case s.Step == StepLocationConfirm:
		return []Effect{announce(locationPrompt(s))}
	case s.Step == StepReservationBusConfirm:
		return []Effect{announce(reservationBusPrompt(leg))}
	case s.Step == StepWaitingBus && s.Arrival != nil:
		return []Effect{announce(waitingBusPrompt(false, leg, *s.Arrival))}
	case s.Step == StepReservationDesConfirm:
		return []Effect{announce(reservationDesPrompt(leg))}
	case s.Step == StepWaitingDestination && s.Visit != nil:
		return []Effect{announce(waitingDestinationPrompt(false, leg, *s.Visit))}
	}

	return []Effect{announce(s.Step.Title())}
}

func locationConfirm(s Session, e Event) (Session, []Effect, error) {
	switch e.Type {
	case EventConfirm:
		return moveTo(s, StepSelectStart)
	case EventBack:
		return exit(s, publish(s, events.TypeTripAbandoned), announce(promptReturnToChat))
	}

	return invalid(s, e)
}

func selectStation(s Session, e Event, previous Step, following Step) (Session, []Effect, error) {
	switch e.Type {
	case EventStationsLoaded, EventLookupFailed:
		if !s.Loading {
			return invalid(s, e)
		}
		s.Loading = false

		if e.Type == EventLookupFailed || len(e.Stations) == 0 {
			return moveTo(s, previous, announce(ErrNoStationFound.Error()))
		}

		s.Candidates = e.Stations
		return s, []Effect{announce(stationPrompt(s.Step, true, s.Candidates[0]))}, nil

	case EventBrowse:
		if s.Loading || e.Index < 0 || e.Index >= len(s.Candidates) {
			return invalid(s, e)
		}
		return s, []Effect{announce(stationPrompt(s.Step, false, s.Candidates[e.Index]))}, nil

	case EventConfirm:
		if s.Loading || e.Index < 0 || e.Index >= len(s.Candidates) {
			return invalid(s, e)
		}

		station := s.Candidates[e.Index]
		if s.Step == StepSelectStart {
			s.Start = &station
		} else {
			s.Destination = &station
		}
		return moveTo(s, following)

	case EventBack:
		return moveTo(s, previous)
	}

	return invalid(s, e)
}

func routingConfirm(s Session, e Event) (Session, []Effect, error) {
	switch e.Type {
	case EventRoutingsLoaded, EventLookupFailed:
		if !s.Loading {
			return invalid(s, e)
		}
		s.Loading = false

		if e.Type == EventLookupFailed || len(e.Routings) == 0 {
			return moveTo(s, StepSelectDestination, announce(ErrNoRouteFound.Error()))
		}

		s.Routings = e.Routings
		return s, []Effect{announce(routingPrompt(true, 0, s.Routings[0]))}, nil

	case EventBrowse:
		if s.Loading || e.Index < 0 || e.Index >= len(s.Routings) {
			return invalid(s, e)
		}
		return s, []Effect{announce(routingPrompt(false, e.Index, s.Routings[e.Index]))}, nil

	case EventConfirm:
		if s.Loading || e.Index < 0 || e.Index >= len(s.Routings) {
			return invalid(s, e)
		}

		routing := s.Routings[e.Index]
		if len(routing.Forwarding) == 0 {
			return invalid(s, e)
		}

		s.Routing = &routing
		s.LegIndex = 0
		return moveTo(s, StepReservationBusConfirm)

	case EventBack:
		return moveTo(s, StepSelectDestination)
	}

	return invalid(s, e)
}

func reservationBusConfirm(s Session, e Event) (Session, []Effect, error) {
	switch e.Type {
	case EventConfirm:
		return moveTo(s, StepWaitingBus)
	case EventBack:
		return moveTo(s, StepRoutingConfirm)
	}

	return invalid(s, e)
}

func board(s Session, vehID string) (Session, []Effect, error) {
	s.BoardedVehID = vehID
	s.Boarding = true

	return s, []Effect{
		{Type: EffectStopWatch},
		announce(promptBusArrived),
		publish(s, events.TypeBoarded),
		{Type: EffectScheduleBoarding},
	}, nil
}

func waitingBus(s Session, e Event) (Session, []Effect, error) {
	leg, _ := s.CurrentLeg()

	switch e.Type {
	case EventArrivalUpdate:
		if s.Boarding {
			return invalid(s, e)
		}

		first := s.Arrival == nil
		arrival := e.Arrival
		s.Arrival = &arrival
		if arrival.VehID1 != "" {
			s.IncomingVehID = arrival.VehID1
		}

		if first {
			return s, []Effect{announce(waitingBusPrompt(true, leg, arrival))}, nil
		}
		return s, nil, nil

	case EventBoarded:
		if s.Boarding || e.VehID == "" {
			return invalid(s, e)
		}
		return board(s, e.VehID)

	case EventConfirm:
		if s.Boarding || s.IncomingVehID == "" {
			return invalid(s, e)
		}
		return board(s, s.IncomingVehID)

	case EventBoardingComplete:
		if !s.Boarding {
			return invalid(s, e)
		}
		s.Boarding = false
		return moveTo(s, StepReservationDesConfirm)

	case EventBack:
		s.Boarding = false
		s.BoardedVehID = ""
		return moveTo(s, StepReservationBusConfirm, Effect{Type: EffectStopWatch}, announce(promptBusCancelled))
	}

	return invalid(s, e)
}

func reservationDesConfirm(s Session, e Event) (Session, []Effect, error) {
	switch e.Type {
	case EventConfirm:
		return moveTo(s, StepWaitingDestination)
	case EventBack:
		return moveTo(s, StepReservationBusConfirm)
	}

	return invalid(s, e)
}

func arrive(s Session) (Session, []Effect, error) {
	effects := []Effect{
		{Type: EffectStopWatch},
		publish(s, events.TypeAlighted),
	}

	if s.IsLastLeg() {
		leg, _ := s.CurrentLeg()
		for _, text := range finalArrivalPrompts(leg) {
			effects = append(effects, announce(text))
		}
		effects = append(effects, publish(s, events.TypeTripFinished))

		return exit(s, effects...)
	}

	s.LegIndex++
	effects = append(effects, announce(promptStopReached))

	return moveTo(s, StepReservationBusConfirm, effects...)
}

func waitingDestination(s Session, e Event) (Session, []Effect, error) {
	leg, _ := s.CurrentLeg()

	switch e.Type {
	case EventVisitUpdate:
		first := s.Visit == nil
		visit := e.Visit
		s.Visit = &visit

		if first {
			return s, []Effect{announce(waitingDestinationPrompt(true, leg, visit))}, nil
		}
		return s, nil, nil

	case EventArrived, EventConfirm:
		return arrive(s)

	case EventBack:
		return moveTo(s, StepReservationDesConfirm, Effect{Type: EffectStopWatch}, announce(promptAlightCancelled))
	}

	return invalid(s, e)
}
