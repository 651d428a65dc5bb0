package api

import (
	"github.com/blindroute/blindroute/pkg/api/routes"
	"github.com/blindroute/blindroute/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Services struct {
	Stations   routes.StationSearcher
	Resolver   routes.RouteResolver
	Registry   routes.Registry
	Navigator  routes.Navigator
	Transcript routes.Transcript
	Metrics    *metrics.Collector
}

func NewApp(services Services) *fiber.App {
	webApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	webApp.Use(NewLogger())

	webApp.Get("/metrics", adaptor.HTTPHandler(services.Metrics.Handler()))

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StationsRouter(group.Group("/stations"), services.Stations)
	routes.PlannerRouter(group.Group("/routes"), services.Resolver)
	routes.RealtimeRouter(group, services.Registry)
	routes.SessionRouter(group.Group("/session"), services.Navigator, services.Transcript)

	return webApp
}

func SetupServer(listen string, services Services) error {
	return NewApp(services).Listen(listen)
}
