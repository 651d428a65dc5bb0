package routes

import (
	"strconv"

	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/blindroute/blindroute/pkg/watcher"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Registry interface {
	watcher.ArrivalSource
	watcher.PositionSource
}

func RealtimeRouter(router fiber.Router, registry Registry) {
	router.Get("/arrival", func(c *fiber.Ctx) error {
		return getArrival(c, registry)
	})
	router.Get("/station_visit", func(c *fiber.Ctx) error {
		return getStationVisit(c, registry)
	})
}

// getArrival answers a single arrival query the way the arrival watcher reads one tick
func getArrival(c *fiber.Ctx, registry Registry) error {
	arsID := c.Query("stationArsId")
	busRouteID := c.Query("busRouteId")

	if arsID == "" || busRouteID == "" {
		return sendError(c, fiber.StatusBadRequest, "Parameters stationArsId and busRouteId are required")
	}

	item, err := registry.GetArrival(c.UserContext(), arsID, busRouteID)
	if err != nil {
		log.Warn().Err(err).Str("arsid", arsID).Str("busrouteid", busRouteID).Msg("Failed to get bus arrival")
		return c.JSON(transit.ServiceEndedArrival())
	}

	return c.JSON(watcher.ParseArrival(item))
}

func getStationVisit(c *fiber.Ctx, registry Registry) error {
	vehID := c.Query("busVehId")
	if vehID == "" || c.Query("busRouteId") == "" {
		return sendError(c, fiber.StatusBadRequest, "Parameters busRouteId and busVehId are required")
	}

	fromSeq, fromErr := strconv.Atoi(c.Query("fromStationSeq"))
	toSeq, toErr := strconv.Atoi(c.Query("toStationSeq"))
	if fromErr != nil || toErr != nil {
		return sendError(c, fiber.StatusBadRequest, "Parameters fromStationSeq and toStationSeq should be integers")
	}

	forwarding := transit.Forwarding{
		BusRouteID:     c.Query("busRouteId"),
		FromStationSeq: fromSeq,
		ToStationSeq:   toSeq,
	}

	stopOrder := -1
	position, err := registry.GetBusPosition(c.UserContext(), vehID)
	if err != nil {
		log.Warn().Err(err).Str("vehid", vehID).Msg("Failed to get bus position")
	} else if order, convErr := strconv.Atoi(position.StOrd); convErr == nil {
		stopOrder = order
	}

	return c.JSON(watcher.ClassifyVisit(forwarding, stopOrder))
}
