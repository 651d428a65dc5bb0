package busregistry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, []string{"key%2Bone", "key-two"}, time.Second)
	client.pickKey = func(int) int { return 0 }

	return client
}

func TestGetArrivalPicksRoute(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stationinfo/getStationByUid", r.URL.Path)
		assert.Equal(t, "775296", r.URL.Query().Get("arsId"))
		assert.Equal(t, "json", r.URL.Query().Get("resultType"))
		assert.Equal(t, "key+one", r.URL.Query().Get("serviceKey"))

		w.Write([]byte(`{"msgHeader":{"headerCd":"0","headerMsg":"정상적으로 처리되었습니다."},
			"msgBody":{"itemList":[
				{"busRouteId":"100100001","arrmsg1":"3분후","vehId1":"x"},
				{"busRouteId":"100100063","arrmsg1":"5분30초후[2번째 전]","vehId1":"111","arrmsg2":"12분3초후","vehId2":"222"}
			]}}`))
	})

	arrival, err := client.GetArrival(context.Background(), "775296", "100100063")
	require.NoError(t, err)

	assert.Equal(t, "111", arrival.VehID1)
	assert.Equal(t, "222", arrival.VehID2)
}

func TestGetArrivalMissingRoute(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"msgHeader":{"headerCd":"4","headerMsg":"결과가 없습니다."},"msgBody":{"itemList":null}}`))
	})

	arrival, err := client.GetArrival(context.Background(), "775296", "100100063")
	require.NoError(t, err)
	assert.Equal(t, transit.RegistryServiceEnded, arrival.ArrMsg1)
	assert.Empty(t, arrival.VehID1)
	assert.Equal(t, "100100063", arrival.BusRouteID)
}

func TestGetArrivalRouteNotListed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"msgHeader":{"headerCd":"0"},"msgBody":{"itemList":[
			{"busRouteId":"100100001","arrmsg1":"3분후","vehId1":"x"}
		]}}`))
	})

	arrival, err := client.GetArrival(context.Background(), "775296", "100100063")
	require.NoError(t, err)
	assert.Equal(t, transit.RegistryServiceEnded, arrival.ArrMsg1)
	assert.Empty(t, arrival.VehID1)
}

func TestGetArrivalTransportFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetArrival(context.Background(), "775296", "100100063")
	assert.Error(t, err)
}

func TestRegistryErrorHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"msgHeader":{"headerCd":"7","headerMsg":"등록되지 않은 키입니다."},"msgBody":{}}`))
	})

	_, err := client.GetStationsByName(context.Background(), "신설동")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "등록되지 않은 키입니다.")
}

func TestHTTPFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetBusPosition(context.Background(), "111")
	assert.Error(t, err)
}

func TestGetBusPosition(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "111", r.URL.Query().Get("vehId"))
		w.Write([]byte(`{"msgHeader":{"headerCd":"0"},"msgBody":{"itemList":[{"vehId":"111","stOrd":"5","plainNo":"서울70사1234"}]}}`))
	})

	position, err := client.GetBusPosition(context.Background(), "111")
	require.NoError(t, err)
	assert.Equal(t, "5", position.StOrd)
}

func TestFindBusRouteExactName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "421", r.URL.Query().Get("stSrch"))
		w.Write([]byte(`{"msgHeader":{"headerCd":"0"},"msgBody":{"itemList":[
			{"busRouteId":"1","busRouteNm":"N421"},
			{"busRouteId":"100100063","busRouteNm":"421"}
		]}}`))
	})

	route, err := client.FindBusRoute(context.Background(), "421")
	require.NoError(t, err)
	assert.Equal(t, "100100063", route.BusRouteID)

	_, err = client.FindBusRoute(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestStationsByRouteIsCached(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"msgHeader":{"headerCd":"0"},"msgBody":{"itemList":[
			{"seq":"1","stationNm":"신설동역","arsId":"775296","direction":"청량리"},
			{"seq":"2","stationNm":"신설동로터리","arsId":"775297","direction":"청량리"}
		]}}`))
	})

	server := miniredis.RunT(t)
	client.Cache = NewCache(redis.NewClient(&redis.Options{Addr: server.Addr()}))

	first, err := client.GetStationsByRoute(context.Background(), "100100063")
	require.NoError(t, err)
	second, err := client.GetStationsByRoute(context.Background(), "100100063")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
	assert.Equal(t, int32(1), calls.Load())
}
