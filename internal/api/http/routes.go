package httpapi

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tenkibot/internal/advisor"
	"tenkibot/internal/health"
)

var validate = validator.New()

const defaultTheme = "casual"

// Resolver runs one utterance through the resolution pipeline.
type Resolver interface {
	Resolve(ctx context.Context, req advisor.RequestContext) advisor.Outcome
}

// chatRequest is the inbound chat body. Lat/Lon are optional; the client
// attaches them when resubmitting after a needsLocation response.
type chatRequest struct {
	Message  string   `json:"message" validate:"required"`
	Theme    string   `json:"theme"`
	Language string   `json:"language" validate:"omitempty,oneof=en ja"`
	Lat      *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon      *float64 `json:"lon" validate:"omitempty,longitude"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, resolver Resolver, monitor *health.Monitor) {
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "ok",
			"service": "tenkibot",
		}
		if monitor != nil {
			body["upstreams"] = monitor.Statuses()
		}
		return c.JSON(body)
	})

	v1 := app.Group("/api/v1")

	v1.Post("/chat", func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if req.Theme == "" {
			req.Theme = defaultTheme
		}
		if req.Language == "" {
			req.Language = string(advisor.LanguageJA)
		}

		reqID := uuid.NewString()
		log.Printf("DEBUG: [%s] chat request theme=%q language=%s coords=%v", reqID, req.Theme, req.Language, req.Lat != nil && req.Lon != nil)

		outcome := resolver.Resolve(c.UserContext(), advisor.RequestContext{
			Utterance: req.Message,
			Theme:     req.Theme,
			Language:  advisor.Language(req.Language),
			Lat:       req.Lat,
			Lon:       req.Lon,
		})

		switch outcome.Kind {
		case advisor.OutcomeNeedsLocation:
			log.Printf("DEBUG: [%s] needs location", reqID)
			return c.JSON(fiber.Map{
				"needsLocation": true,
				"message":       outcome.Message,
			})
		case advisor.OutcomeSuccess:
			log.Printf("DEBUG: [%s] success city=%q", reqID, outcome.City)
			return c.JSON(fiber.Map{
				"reply":   outcome.Reply,
				"weather": outcome.Weather,
				"city":    outcome.City,
			})
		default:
			log.Printf("ERROR: [%s] pipeline failure kind=%s detail=%q", reqID, outcome.FailureKind, outcome.Detail)
			status := fiber.StatusInternalServerError
			if outcome.FailureKind == advisor.FailureUpstream {
				status = fiber.StatusBadGateway
			}
			return c.Status(status).JSON(fiber.Map{
				"error": outcome.Detail,
			})
		}
	})
}
