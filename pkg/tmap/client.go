package tmap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/rs/zerolog/log"
)

var ErrNoItinerary = errors.New("planner found no itinerary")

// Client queries the SK open API transit route planner
type Client struct {
	BaseURL    string
	AppKey     string
	HTTPClient *http.Client

	// Number of itineraries requested from the planner
	Count int
}

func NewClient(baseURL string, appKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AppKey:     appKey,
		HTTPClient: &http.Client{Timeout: timeout},
		Count:      10,
	}
}

type transitRoutesRequest struct {
	StartX string `json:"startX"`
	StartY string `json:"startY"`
	EndX   string `json:"endX"`
	EndY   string `json:"endY"`
	Count  int    `json:"count"`
	Lang   int    `json:"lang"`
	Format string `json:"format"`
}

func (c *Client) GetTransitRoutes(ctx context.Context, start transit.Coordinates, destination transit.Coordinates) ([]Itinerary, error) {
	payload, err := json.Marshal(transitRoutesRequest{
		StartX: start.X,
		StartY: start.Y,
		EndX:   destination.X,
		EndY:   destination.Y,
		Count:  c.Count,
		Lang:   0,
		Format: "json",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/transit/routes", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("appKey", c.AppKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transit routes: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transit routes: read body: %w", err)
	}

	var decoded transitRoutesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("transit routes: decode (status %s): %w", resp.Status, err)
	}

	if decoded.Error != nil {
		return nil, fmt.Errorf("transit routes: %s %s", decoded.Error.Code, decoded.Error.Message)
	}

	// Status 11-14 mean the planner could not build any path between the points
	if decoded.Result != nil {
		log.Debug().Int("status", decoded.Result.Status).Str("message", decoded.Result.Message).Msg("Planner returned no plan")
		return nil, fmt.Errorf("%w: %s", ErrNoItinerary, decoded.Result.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transit routes: unexpected status %s", resp.Status)
	}

	if decoded.MetaData == nil || len(decoded.MetaData.Plan.Itineraries) == 0 {
		return nil, ErrNoItinerary
	}

	return decoded.MetaData.Plan.Itineraries, nil
}
