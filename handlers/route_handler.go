// Package handlers holds the thin Fiber edge: request parsing, status
// mapping, and JSON framing around the route-planning core. Per spec
// §1/§6 these are out-of-scope plumbing — no planning logic lives here.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fuelroute/apperr"
	"fuelroute/orchestrator"
)

// RouteHandler exposes the route-planning core over HTTP.
type RouteHandler struct {
	planner *orchestrator.Planner
}

// NewRouteHandler wraps a *orchestrator.Planner for HTTP use.
func NewRouteHandler(planner *orchestrator.Planner) *RouteHandler {
	return &RouteHandler{planner: planner}
}

// routeRequest is the shared shape for both the query-string (GET) and
// JSON-body (POST) forms of the endpoint (spec §6).
type routeRequest struct {
	Start string `query:"start" json:"start"`
	End   string `query:"end" json:"end"`
}

// PlanRoute handles GET and POST /api/route/. Both methods accept the
// same two required string fields, start and end; GET reads them from
// the query string and POST from a JSON body.
func (h *RouteHandler) PlanRoute(c *fiber.Ctx) error {
	var req routeRequest

	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "malformed request body"})
		}
	} else {
		if err := c.QueryParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "malformed query string"})
		}
	}

	if req.Start == "" || req.End == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "start and end are required"})
	}

	result, err := h.planner.Plan(c.Context(), req.Start, req.End)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"detail": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// statusFor maps a core error to the HTTP status spec §6/§7 assigns it.
// An *apperr.Error uses its kind's Status(): 400 for service failures,
// 500 for KindInternal; anything else is an unclassified 500.
func statusFor(err error) int {
	if appErr, ok := err.(*apperr.Error); ok {
		return appErr.Status()
	}
	return fiber.StatusInternalServerError
}
