package routes

import (
	"context"
	"errors"

	"github.com/blindroute/blindroute/pkg/tmap"
	"github.com/blindroute/blindroute/pkg/transit"
	"github.com/gofiber/fiber/v2"
)

type RouteResolver interface {
	Resolve(ctx context.Context, start transit.Station, destination transit.Station) ([]transit.Routing, error)
}

type routesQuery struct {
	StartX       string `query:"startX" validate:"required,longitude"`
	StartY       string `query:"startY" validate:"required,latitude"`
	DestinationX string `query:"destinationX" validate:"required,longitude"`
	DestinationY string `query:"destinationY" validate:"required,latitude"`
}

func PlannerRouter(router fiber.Router, resolver RouteResolver) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getRoutes(c, resolver)
	})
}

func getRoutes(c *fiber.Ctx, resolver RouteResolver) error {
	var query routesQuery
	if err := c.QueryParser(&query); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(query); err != nil {
		return sendError(c, fiber.StatusBadRequest, "Parameters startX, startY, destinationX and destinationY must be coordinates")
	}

	start := transit.Station{TmX: query.StartX, TmY: query.StartY}
	destination := transit.Station{TmX: query.DestinationX, TmY: query.DestinationY}

	routings, err := resolver.Resolve(c.UserContext(), start, destination)
	if errors.Is(err, tmap.ErrNoItinerary) || (err == nil && len(routings) == 0) {
		return sendError(c, fiber.StatusNotFound, "No bus routing found between the locations")
	} else if err != nil {
		return sendError(c, fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(routings)
}
