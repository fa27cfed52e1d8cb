package system

import (
	"time"

	"forwarddesk/internal/cache"
	"forwarddesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct {
	Cache *cache.TTLCache
}

func NewDebugController(ttlCache *cache.TTLCache) *DebugController {
	return &DebugController{Cache: ttlCache}
}

// GetCurrentUser godoc
// @Summary      Get current user info
// @Description  Get the current user's info from JWT
// @Tags         debug
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /debug/me [get]
func (c *DebugController) GetCurrentUser(ctx *fiber.Ctx) error {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return ctx.JSON(fiber.Map{
		"user_id":         claims.UserID,
		"organization_id": claims.OrganizationID,
		"role":            claims.Role,
	})
}

// Health godoc
// @Summary      Service health
// @Tags         debug
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /debug/health [get]
func (c *DebugController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":        "ok",
		"cache_entries": c.Cache.Len(),
		"time":          time.Now().UTC(),
	})
}
