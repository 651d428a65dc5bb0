package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/blindroute/blindroute/pkg/busregistry"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPositions struct {
	mu     sync.Mutex
	orders []string
	errs   []error
	calls  int
}

func (s *scriptedPositions) GetBusPosition(ctx context.Context, vehID string) (busregistry.BusPositionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.calls
	if i >= len(s.orders) {
		i = len(s.orders) - 1
	}
	s.calls++

	if i < len(s.errs) && s.errs[i] != nil {
		return busregistry.BusPositionItem{}, s.errs[i]
	}
	return busregistry.BusPositionItem{VehID: vehID, StOrd: s.orders[i]}, nil
}

func TestClassifyVisit(t *testing.T) {
	tests := []struct {
		name      string
		stopOrder int
		expected  transit.StationVisitStatus
	}{
		{"NoPosition", -1, transit.StationVisitStatus{Msg: "운행종료", State: transit.VisitStateServiceEnded}},
		{"FirstStop", 3, transit.StationVisitStatus{Msg: "4개의 정류장이 남았습니다.", CurrentStopOrder: "3", State: transit.VisitStateInTransit}},
		{"TwoRemaining", 5, transit.StationVisitStatus{Msg: "2개의 정류장이 남았습니다.", CurrentStopOrder: "5", State: transit.VisitStateInTransit}},
		{"LastGap", 6, transit.StationVisitStatus{Msg: "곧 도착합니다.", CurrentStopOrder: "6", State: transit.VisitStateInTransit}},
		{"Destination", 7, transit.StationVisitStatus{Msg: "목적지에 도착했습니다.", CurrentStopOrder: "7", State: transit.VisitStateArrived}},
		{"Overshot", 9, transit.StationVisitStatus{Msg: "목적지에 도착했습니다.", CurrentStopOrder: "9", State: transit.VisitStateArrived}},
		{"BeforeWindow", 1, transit.StationVisitStatus{Msg: "목적지에 도착했습니다.", CurrentStopOrder: "1", State: transit.VisitStateArrived}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, ClassifyVisit(leg, test.stopOrder))
		})
	}
}

func TestStationVisitWatcherArrivesAtWindowExit(t *testing.T) {
	source := &scriptedPositions{orders: []string{"4", "5", "7"}}

	arrivals := 0
	var updates []transit.StationVisitStatus

	watcher := NewStationVisitWatcher(leg, "A", source, time.Second)
	watcher.OnArrived = func() { arrivals++ }
	watcher.OnUpdate = func(status transit.StationVisitStatus) { updates = append(updates, status) }

	ctx := context.Background()

	assert.False(t, watcher.Poll(ctx))
	assert.Equal(t, 0, arrivals)
	assert.False(t, watcher.Poll(ctx))
	assert.Equal(t, 0, arrivals)
	assert.True(t, watcher.Poll(ctx))
	assert.Equal(t, 1, arrivals)

	assert.True(t, watcher.Poll(ctx))
	assert.Equal(t, 1, arrivals)
	assert.Equal(t, 3, source.calls)

	require.Len(t, updates, 2)
	assert.Equal(t, "3개의 정류장이 남았습니다.", updates[0].Msg)
	assert.Equal(t, "2개의 정류장이 남았습니다.", updates[1].Msg)
	assert.Equal(t, "7", watcher.Status().CurrentStopOrder)
}

func TestStationVisitWatcherIdenticalPollsKeepState(t *testing.T) {
	source := &scriptedPositions{orders: []string{"5"}}

	watcher := NewStationVisitWatcher(leg, "A", source, time.Second)
	watcher.OnArrived = func() { t.Fatal("unexpected arrival") }

	for i := 0; i < 4; i++ {
		assert.False(t, watcher.Poll(context.Background()))
		assert.Equal(t, "5", watcher.Status().CurrentStopOrder)
	}
	assert.False(t, watcher.Arrived())
}

func TestStationVisitWatcherFailureContinues(t *testing.T) {
	source := &scriptedPositions{
		orders: []string{"4", "", "", "6"},
		errs:   []error{nil, errors.New("timeout"), nil, nil},
	}

	var updates []transit.StationVisitStatus
	watcher := NewStationVisitWatcher(leg, "A", source, time.Second)
	watcher.OnUpdate = func(status transit.StationVisitStatus) { updates = append(updates, status) }
	watcher.OnArrived = func() { t.Fatal("unexpected arrival") }

	for i := 0; i < 4; i++ {
		assert.False(t, watcher.Poll(context.Background()))
	}

	require.Len(t, updates, 4)
	assert.Equal(t, transit.ServiceEndedVisit(), updates[1])
	assert.Equal(t, transit.ServiceEndedVisit(), updates[2])
	assert.Equal(t, transit.VisitArrivingSoon, updates[3].Msg)
}

func TestStationVisitWatcherRun(t *testing.T) {
	source := &scriptedPositions{orders: []string{"3", "6", "8"}}

	arrived := make(chan struct{})
	watcher := NewStationVisitWatcher(leg, "A", source, 5*time.Millisecond)
	watcher.OnArrived = func() { close(arrived) }

	go watcher.Run(context.Background())

	select {
	case <-arrived:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported arrival")
	}
	assert.True(t, watcher.Arrived())
}
