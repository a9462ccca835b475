package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/campusnav/internal/core/domain"
)

type planRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	UserID string `json:"user_id"`
}

type positionRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// CreateSessionHandler plans a new navigation session.
func CreateSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req planRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if req.From == "" || req.To == "" {
			return errBadRequest(c, "from and to are required")
		}
		view, err := deps.Navigation.Plan(c.UserContext(), req.UserID, req.From, req.To)
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Location("/v1/sessions/" + view.ID)
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// ReplanSessionHandler points an existing session at a new leg.
func ReplanSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req planRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if req.From == "" || req.To == "" {
			return errBadRequest(c, "from and to are required")
		}
		view, err := deps.Navigation.Replan(c.UserContext(), c.Params("id"), req.From, req.To)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(view)
	}
}

// GetSessionHandler returns a session's current state.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Navigation.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(view)
	}
}

// StartSessionHandler begins guidance.
func StartSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Navigation.Start(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(view)
	}
}

// PositionHandler feeds one position fix to a session and returns the progress.
func PositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req positionRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if req.Lat == nil || req.Lon == nil {
			return errBadRequest(c, "lat and lon are required")
		}
		progress, err := deps.Navigation.UpdatePosition(c.UserContext(), c.Params("id"),
			domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon})
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(progress)
	}
}

// StopSessionHandler cancels a session. Stopping a finished session is not an error.
func StopSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, stopped, err := deps.Navigation.Stop(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{
			"stopped": stopped,
			"session": view,
		})
	}
}

// DiscardSessionHandler cancels and forgets a session.
func DiscardSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Navigation.Discard(c.UserContext(), c.Params("id")); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
