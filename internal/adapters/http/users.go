package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/campusnav/internal/core/domain"
)

// GetPreferencesHandler returns a user's guidance settings.
func GetPreferencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		prefs, err := deps.Preferences.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(prefs)
	}
}

// PutPreferencesHandler stores a user's guidance settings.
func PutPreferencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var prefs domain.Preferences
		if err := c.BodyParser(&prefs); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		prefs.UserID = c.Params("id")
		saved, err := deps.Preferences.Update(c.UserContext(), prefs)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(saved)
	}
}

// HistoryHandler lists a user's finished sessions, newest first.
func HistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		records, err := deps.History.ListByUser(c.UserContext(), c.Params("id"), limit)
		if err != nil {
			return errFromDomain(c, err)
		}
		if records == nil {
			records = []domain.NavigationRecord{}
		}
		return c.JSON(records)
	}
}
