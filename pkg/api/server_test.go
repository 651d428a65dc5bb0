package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/blindroute/blindroute/pkg/busregistry"
	"github.com/blindroute/blindroute/pkg/metrics"
	"github.com/blindroute/blindroute/pkg/session"
	"github.com/blindroute/blindroute/pkg/stations"
	"github.com/blindroute/blindroute/pkg/tmap"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher map[string][]transit.Station

func (f fakeSearcher) Search(ctx context.Context, stationName string) ([]transit.Station, error) {
	found, ok := f[stationName]
	if !ok {
		return nil, stations.ErrNoStationFound
	}
	return found, nil
}

type fakeResolver struct {
	routings []transit.Routing
	err      error

	start transit.Station
}

func (f *fakeResolver) Resolve(ctx context.Context, start transit.Station, destination transit.Station) ([]transit.Routing, error) {
	f.start = start
	return f.routings, f.err
}

type fakeRegistry struct {
	arrival    busregistry.ArrivalItem
	arrivalErr error
	position   busregistry.BusPositionItem
}

func (f *fakeRegistry) GetArrival(ctx context.Context, arsID string, busRouteID string) (busregistry.ArrivalItem, error) {
	return f.arrival, f.arrivalErr
}

func (f *fakeRegistry) GetBusPosition(ctx context.Context, vehID string) (busregistry.BusPositionItem, error) {
	return f.position, nil
}

type testServer struct {
	app        *fiber.App
	resolver   *fakeResolver
	registry   *fakeRegistry
	transcript *Transcript
}

func newTestServer() *testServer {
	s := &testServer{
		resolver:   &fakeResolver{},
		registry:   &fakeRegistry{},
		transcript: &Transcript{},
	}

	searcher := fakeSearcher{
		"신설동역": {{StNm: "신설동역", ArsID: "01001", StDir: "동묘앞", TmX: "127.02", TmY: "37.57"}},
	}

	navigator := &session.Navigator{
		Stations:  searcher,
		Resolver:  s.resolver,
		Arrivals:  s.registry,
		Positions: s.registry,
		Announcer: s.transcript,
	}

	s.app = NewApp(Services{
		Stations:   searcher,
		Resolver:   s.resolver,
		Registry:   s.registry,
		Navigator:  navigator,
		Transcript: s.transcript,
		Metrics:    metrics.NewCollector(),
	})

	return s
}

func (s *testServer) do(t *testing.T, method string, target string, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp.StatusCode, decoded
}

func TestVersion(t *testing.T) {
	s := newTestServer()

	status, body := s.do(t, http.MethodGet, "/core/version", "")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["version"])
}

func TestStations(t *testing.T) {
	s := newTestServer()

	status, body := s.do(t, http.MethodGet, "/core/stations", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Parameter name is required", body["error"])

	status, body = s.do(t, http.MethodGet, "/core/stations?name="+url.QueryEscape("없는역"), "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])

	req := httptest.NewRequest(http.MethodGet, "/core/stations?name="+url.QueryEscape("신설동역"), nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var found []transit.Station
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	require.Len(t, found, 1)
	assert.Equal(t, "동묘앞", found[0].StDir)
}

func TestRoutes(t *testing.T) {
	s := newTestServer()

	status, body := s.do(t, http.MethodGet, "/core/routes?startX=127.02&startY=37.57", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "coordinates")

	status, _ = s.do(t, http.MethodGet, "/core/routes?startX=abc&startY=37.57&destinationX=127.03&destinationY=37.59", "")
	assert.Equal(t, http.StatusBadRequest, status)

	s.resolver.err = tmap.ErrNoItinerary
	status, _ = s.do(t, http.MethodGet, "/core/routes?startX=127.02&startY=37.57&destinationX=127.03&destinationY=37.59", "")
	assert.Equal(t, http.StatusNotFound, status)

	s.resolver.err = errors.New("planner unavailable")
	status, _ = s.do(t, http.MethodGet, "/core/routes?startX=127.02&startY=37.57&destinationX=127.03&destinationY=37.59", "")
	assert.Equal(t, http.StatusBadGateway, status)

	s.resolver.err = nil
	s.resolver.routings = []transit.Routing{{Fare: 1500, Time: 600, Forwarding: []transit.Forwarding{{BusRouteNm: "421"}}}}

	req := httptest.NewRequest(http.MethodGet, "/core/routes?startX=127.02&startY=37.57&destinationX=127.03&destinationY=37.59", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, transit.Coordinates{X: "127.02", Y: "37.57"}, s.resolver.start.Coordinates())

	var routings []transit.Routing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&routings))
	require.Len(t, routings, 1)
	assert.Equal(t, "421", routings[0].Forwarding[0].BusRouteNm)
}

func TestArrival(t *testing.T) {
	s := newTestServer()

	status, _ := s.do(t, http.MethodGet, "/core/arrival?stationArsId=775296", "")
	assert.Equal(t, http.StatusBadRequest, status)

	s.registry.arrival = busregistry.ArrivalItem{
		ArrMsg1: "3분10초후[2번째 전]",
		VehID1:  "111033115",
		ArrMsg2: "12분40초후[7번째 전]",
		VehID2:  "111033120",
	}

	status, body := s.do(t, http.MethodGet, "/core/arrival?stationArsId=775296&busRouteId=100100063", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "3분10초후에 도착합니다", body["busArrMsg1"])
	assert.Equal(t, "111033115", body["busVehId1"])
	assert.Equal(t, "다음 버스는 12분40초후에 도착합니다", body["busArrMsg2"])

	s.registry.arrivalErr = busregistry.ErrNoData
	status, body = s.do(t, http.MethodGet, "/core/arrival?stationArsId=775296&busRouteId=100100063", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, transit.ArrivalServiceEnded, body["busArrMsg1"])
	assert.Equal(t, "", body["busVehId1"])
}

func TestStationVisit(t *testing.T) {
	s := newTestServer()

	status, _ := s.do(t, http.MethodGet, "/core/station_visit?busRouteId=100100063&busVehId=111033115&fromStationSeq=a&toStationSeq=7", "")
	assert.Equal(t, http.StatusBadRequest, status)

	s.registry.position = busregistry.BusPositionItem{StOrd: "5"}
	status, body := s.do(t, http.MethodGet, "/core/station_visit?busRouteId=100100063&busVehId=111033115&fromStationSeq=3&toStationSeq=7", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2개의 정류장이 남았습니다.", body["stationVisMsg"])
	assert.Equal(t, "5", body["stationOrd"])

	s.registry.position = busregistry.BusPositionItem{StOrd: "7"}
	_, body = s.do(t, http.MethodGet, "/core/station_visit?busRouteId=100100063&busVehId=111033115&fromStationSeq=3&toStationSeq=7", "")
	assert.Equal(t, string(transit.VisitStateArrived), body["state"])

	s.registry.position = busregistry.BusPositionItem{}
	_, body = s.do(t, http.MethodGet, "/core/station_visit?busRouteId=100100063&busVehId=111033115&fromStationSeq=3&toStationSeq=7", "")
	assert.Equal(t, transit.VisitServiceEnded, body["stationVisMsg"])
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer()

	status, _ := s.do(t, http.MethodGet, "/core/session", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPost, "/core/session/events", `{"type":"confirm"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPost, "/core/session", `{"start":"","destination":"고려대앞"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"잘못된 접근입니다. 챗봇으로 돌아갑니다."}, s.transcript.Recent())

	status, body := s.do(t, http.MethodPost, "/core/session", `{"start":"신설동역","destination":"고려대앞","deviceToken":"token"}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, string(session.StepLocationConfirm), body["step"])
	assert.NotContains(t, body, "DeviceToken")

	status, body = s.do(t, http.MethodGet, "/core/session", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["announcements"], "출발지 신설동역, 도착지 고려대앞로 경로 탐색을 시작하려면 왼쪽으로 스와이프 하세요.")

	status, _ = s.do(t, http.MethodPost, "/core/session/events", `{"type":"boarded"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/core/session/events", `{"type":"browse","index":0}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(t, http.MethodPost, "/core/session/events", `{"type":"repeat"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodDelete, "/core/session", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = s.do(t, http.MethodGet, "/core/session", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["session"].(map[string]any)["finished"])

	status, _ = s.do(t, http.MethodPost, "/core/session/events", `{"type":"confirm"}`)
	assert.Equal(t, http.StatusConflict, status)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "blindroute_watcher_active")
}

func TestTranscriptKeepsRecentEntries(t *testing.T) {
	transcript := &Transcript{Size: 2}

	transcript.Announce(context.Background(), "one")
	transcript.Announce(context.Background(), "two")
	transcript.Announce(context.Background(), "three")

	assert.Equal(t, []string{"two", "three"}, transcript.Recent())
}
