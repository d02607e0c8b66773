package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/presenter"
	"github.com/i474232898/weather-lookup/internal/search"
)

var validate = validator.New()

// Session is the part of the search session the HTTP layer drives.
type Session interface {
	presenter.Viewer
	SetQuery(q string) error
	Select() error
	ClearSelection() error
	Stats() search.Stats
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, session Session) {
	view := presenter.New(session)
	v1 := app.Group("/api/v1")

	v1.Get("/view", func(c *fiber.Ctx) error {
		return c.JSON(view.Card())
	})

	v1.Put("/query", func(c *fiber.Ctx) error {
		var req queryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := session.SetQuery(req.Query); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to schedule search")
		}

		return c.Status(fiber.StatusAccepted).JSON(view.Card())
	})

	v1.Post("/selection", func(c *fiber.Ctx) error {
		if err := session.Select(); err != nil {
			if errors.Is(err, search.ErrNothingToSelect) {
				return fiber.NewError(fiber.StatusConflict, "no weather result to select")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save selected city")
		}
		return c.JSON(view.Card())
	})

	v1.Delete("/selection", func(c *fiber.Ctx) error {
		if err := session.ClearSelection(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to clear selected city")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(session.Stats())
	})
}

// queryRequest is the body of PUT /query. An empty query is valid and clears
// the result.
type queryRequest struct {
	Query string `json:"query" validate:"max=200"`
}
