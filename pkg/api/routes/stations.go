package routes

import (
	"context"
	"errors"

	"github.com/blindroute/blindroute/pkg/stations"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/gofiber/fiber/v2"
)

type StationSearcher interface {
	Search(ctx context.Context, stationName string) ([]transit.Station, error)
}

func StationsRouter(router fiber.Router, searcher StationSearcher) {
	router.Get("/", func(c *fiber.Ctx) error {
		return searchStations(c, searcher)
	})
}

func searchStations(c *fiber.Ctx, searcher StationSearcher) error {
	name := c.Query("name")
	if name == "" {
		return sendError(c, fiber.StatusBadRequest, "Parameter name is required")
	}

	found, err := searcher.Search(c.UserContext(), name)
	if errors.Is(err, stations.ErrNoStationFound) {
		return sendError(c, fiber.StatusNotFound, err.Error())
	} else if err != nil {
		return sendError(c, fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(found)
}
