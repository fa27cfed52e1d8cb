package trend

import (
	"errors"

	"forwarddesk/internal/features/report"
	"forwarddesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrendController struct {
	TrendService TrendService
}

func NewTrendController(trendService TrendService) *TrendController {
	return &TrendController{TrendService: trendService}
}

// Analyze serves the bundled analytics view. organizationId is required
// on the query string and must match the caller's token scope.
func (c *TrendController) Analyze(ctx *fiber.Ctx) error {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	requested := ctx.Query("organizationId")
	if requested == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "organizationId is required"})
	}
	if requested != claims.OrganizationID {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
	orgID, err := primitive.ObjectIDFromHex(requested)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid organizationId"})
	}

	var q Query
	if err := ctx.QueryParser(&q); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	data, err := c.TrendService.Analyze(ctx.Context(), orgID, &q)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, report.ErrConfiguration) {
			status = fiber.StatusBadRequest
		}
		return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(data)
}
