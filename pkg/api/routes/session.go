package routes

import (
	"context"
	"errors"

	"github.com/blindroute/blindroute/pkg/session"
	"github.com/gofiber/fiber/v2"
)

type Navigator interface {
	Start(ctx context.Context, startName string, destinationName string, deviceToken string) error
	Dispatch(e session.Event) error
	Stop()
	Snapshot() (session.Session, error)
}

// Transcript exposes what has recently been read out to the rider
type Transcript interface {
	Recent() []string
}

type startSessionRequest struct {
	Start       string `json:"start"`
	Destination string `json:"destination"`
	DeviceToken string `json:"deviceToken" validate:"max=4096"`
}

type sessionEventRequest struct {
	Type  string `json:"type" validate:"required,oneof=confirm back browse repeat abandon"`
	Index int    `json:"index" validate:"gte=0"`
}

func SessionRouter(router fiber.Router, navigator Navigator, transcript Transcript) {
	router.Post("/", func(c *fiber.Ctx) error {
		return startSession(c, navigator)
	})
	router.Get("/", func(c *fiber.Ctx) error {
		return getSession(c, navigator, transcript)
	})
	router.Delete("/", func(c *fiber.Ctx) error {
		navigator.Stop()
		return c.SendStatus(fiber.StatusNoContent)
	})
	router.Post("/events", func(c *fiber.Ctx) error {
		return dispatchSessionEvent(c, navigator)
	})
}

func startSession(c *fiber.Ctx, navigator Navigator) error {
	var request startSessionRequest
	if err := c.BodyParser(&request); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(request); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	// Sessions outlive the request that started them
	err := navigator.Start(context.Background(), request.Start, request.Destination, request.DeviceToken)
	if errors.Is(err, session.ErrInvalidLocations) {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	} else if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	snapshot, err := navigator.Snapshot()
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	c.Status(fiber.StatusCreated)
	return c.JSON(snapshot)
}

func getSession(c *fiber.Ctx, navigator Navigator, transcript Transcript) error {
	snapshot, err := navigator.Snapshot()
	if errors.Is(err, session.ErrNoSession) {
		return sendError(c, fiber.StatusNotFound, err.Error())
	} else if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	var announcements []string
	if transcript != nil {
		announcements = transcript.Recent()
	}

	return c.JSON(fiber.Map{
		"session":       snapshot,
		"announcements": announcements,
	})
}

func dispatchSessionEvent(c *fiber.Ctx, navigator Navigator) error {
	var request sessionEventRequest
	if err := c.BodyParser(&request); err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(request); err != nil {
		return sendError(c, fiber.StatusBadRequest, "Event type must be one of confirm, back, browse, repeat or abandon")
	}

	err := navigator.Dispatch(session.Event{Type: session.EventType(request.Type), Index: request.Index})
	switch {
	case errors.Is(err, session.ErrNoSession):
		return sendError(c, fiber.StatusNotFound, err.Error())
	case session.IsInvalidTransition(err):
		return sendError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	snapshot, err := navigator.Snapshot()
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(snapshot)
}
