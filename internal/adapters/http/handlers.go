package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/campusnav/internal/core/domain"
)

// locationRequest is the body of create and update calls.
type locationRequest struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

func (r locationRequest) toDomain(id string) *domain.NamedLocation {
	return &domain.NamedLocation{
		ID:          id,
		Name:        strings.TrimSpace(r.Name),
		Location:    domain.GeoPoint{Lat: r.Lat, Lon: r.Lon},
		Category:    r.Category,
		Description: r.Description,
	}
}

// ListLocationsHandler returns a page of locations, or every location in a
// category when ?category= is given.
func ListLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if category := c.Query("category"); category != "" {
			locs, err := deps.Locations.ListByCategory(c.UserContext(), category)
			if err != nil {
				return errFromDomain(c, err)
			}
			return c.JSON(locs)
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		locs, total, err := deps.Locations.List(c.UserContext(), offset, limit)
		if err != nil {
			return errFromDomain(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: locs, Pagination: pg})
	}
}

// GetLocationHandler returns a single location by ID.
func GetLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		loc, err := deps.Locations.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(loc)
	}
}

// CreateLocationHandler adds a location to the campus map.
func CreateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		loc := req.toDomain("")
		if err := deps.Locations.Create(c.UserContext(), loc); err != nil {
			return errFromDomain(c, err)
		}
		c.Location("/v1/locations/" + loc.ID)
		return c.Status(fiber.StatusCreated).JSON(loc)
	}
}

// UpdateLocationHandler replaces a location's fields.
func UpdateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		loc := req.toDomain(c.Params("id"))
		if err := deps.Locations.Update(c.UserContext(), loc); err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(loc)
	}
}

// DeleteLocationHandler removes a location.
func DeleteLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Locations.Delete(c.UserContext(), c.Params("id")); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// NearestLocationsHandler returns the locations closest to a point.
func NearestLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		p := domain.GeoPoint{Lat: c.QueryFloat("lat", 0), Lon: c.QueryFloat("lon", 0)}
		limit := c.QueryInt("limit", 1)

		locs, err := deps.Locations.Nearest(c.UserContext(), p, limit)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(locs)
	}
}

// DistanceHandler measures the direct leg between two named locations.
// The optional stride query parameter overrides the configured stride.
func DistanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to := c.Query("from"), c.Query("to")
		if from == "" || to == "" {
			return errBadRequest(c, "from and to query parameters are required")
		}
		opts := deps.Navigation.Defaults()
		stride := c.QueryFloat("stride", opts.StrideLengthMeters)

		plan, err := deps.Locations.DistanceBetween(c.UserContext(), from, to, stride, opts.WalkingSpeedMps)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(plan)
	}
}
