package busregistry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/rs/zerolog/log"
)

const (
	headerCodeOK       = "0"
	headerCodeNoResult = "4"
)

var ErrNoData = errors.New("bus registry returned no data")

// Client talks to the Seoul bus information API. Every request picks one of the
// configured service keys at random to spread the daily quota.
type Client struct {
	BaseURL     string
	ServiceKeys []string
	HTTPClient  *http.Client

	// Optional store for route and station list lookups
	Cache *Cache

	pickKey func(n int) int
}

func NewClient(baseURL string, serviceKeys []string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		ServiceKeys: serviceKeys,
		HTTPClient:  &http.Client{Timeout: timeout},
		pickKey:     rand.Intn,
	}
}

func (c *Client) serviceKey() string {
	if len(c.ServiceKeys) == 0 {
		return ""
	}

	pick := c.pickKey
	if pick == nil {
		pick = rand.Intn
	}
	key := c.ServiceKeys[pick(len(c.ServiceKeys))]

	// Keys are handed out URL-encoded by data.go.kr
	if decoded, err := url.QueryUnescape(key); err == nil {
		return decoded
	}
	return key
}

func get[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	params.Set("serviceKey", c.serviceKey())
	params.Set("resultType", "json")

	requestURL := fmt.Sprintf("%s/%s?%s", c.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", path, err)
	}

	var decoded response[T]
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}

	switch decoded.MsgHeader.HeaderCd {
	case headerCodeOK, "":
	case headerCodeNoResult:
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: registry error %s: %s", path, decoded.MsgHeader.HeaderCd, decoded.MsgHeader.HeaderMsg)
	}

	log.Debug().
		Str("path", path).
		Int("items", len(decoded.MsgBody.ItemList)).
		Msg("Bus registry response")

	return decoded.MsgBody.ItemList, nil
}

func (c *Client) GetStationsByName(ctx context.Context, stationName string) ([]StationItem, error) {
	return get[StationItem](ctx, c, "stationinfo/getStationByName", url.Values{"stSrch": {stationName}})
}

func (c *Client) GetBusRouteList(ctx context.Context, busRouteNm string) ([]RouteItem, error) {
	cacheKey := fmt.Sprintf("busroutelist:%s", busRouteNm)

	return cached(ctx, c.Cache, cacheKey, func() ([]RouteItem, error) {
		return get[RouteItem](ctx, c, "busRouteInfo/getBusRouteList", url.Values{"stSrch": {busRouteNm}})
	})
}

// FindBusRoute returns the registry route whose name is exactly busRouteNm
func (c *Client) FindBusRoute(ctx context.Context, busRouteNm string) (RouteItem, error) {
	routes, err := c.GetBusRouteList(ctx, busRouteNm)
	if err != nil {
		return RouteItem{}, err
	}

	for _, route := range routes {
		if route.BusRouteNm == busRouteNm {
			return route, nil
		}
	}

	return RouteItem{}, fmt.Errorf("bus route %q: %w", busRouteNm, ErrNoData)
}

func (c *Client) GetStationsByRoute(ctx context.Context, busRouteID string) ([]RouteStationItem, error) {
	cacheKey := fmt.Sprintf("stationsbyroute:%s", busRouteID)

	return cached(ctx, c.Cache, cacheKey, func() ([]RouteStationItem, error) {
		return get[RouteStationItem](ctx, c, "busRouteInfo/getStaionByRoute", url.Values{"busRouteId": {busRouteID}})
	})
}

func (c *Client) GetArrivalsByStation(ctx context.Context, arsID string) ([]ArrivalItem, error) {
	return get[ArrivalItem](ctx, c, "stationinfo/getStationByUid", url.Values{"arsId": {arsID}})
}

// GetArrival returns the arrival prediction of one route at the stop. A route the
// stop no longer lists, including an empty answer, is reported as service ended.
func (c *Client) GetArrival(ctx context.Context, arsID string, busRouteID string) (ArrivalItem, error) {
	arrivals, err := c.GetArrivalsByStation(ctx, arsID)
	if err != nil {
		return ArrivalItem{}, err
	}

	for _, arrival := range arrivals {
		if arrival.BusRouteID == busRouteID {
			return arrival, nil
		}
	}

	log.Debug().Str("arsid", arsID).Str("busrouteid", busRouteID).Msg("Route not listed at stop")

	return ArrivalItem{
		BusRouteID: busRouteID,
		ArsID:      arsID,
		ArrMsg1:    transit.RegistryServiceEnded,
		ArrMsg2:    transit.RegistryServiceEnded,
	}, nil
}

func (c *Client) GetBusPosition(ctx context.Context, vehID string) (BusPositionItem, error) {
	positions, err := get[BusPositionItem](ctx, c, "buspos/getBusPosByVehId", url.Values{"vehId": {vehID}})
	if err != nil {
		return BusPositionItem{}, err
	}

	if len(positions) == 0 {
		return BusPositionItem{}, fmt.Errorf("vehicle %s: %w", vehID, ErrNoData)
	}

	return positions[0], nil
}
