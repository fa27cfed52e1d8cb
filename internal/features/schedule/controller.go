package schedule

import (
	"strconv"

	"forwarddesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ScheduleController struct {
	ScheduleService ScheduleService
}

func NewScheduleController(scheduleService ScheduleService) *ScheduleController {
	return &ScheduleController{ScheduleService: scheduleService}
}

func orgScope(ctx *fiber.Ctx) (primitive.ObjectID, primitive.ObjectID, bool) {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	orgID, err := primitive.ObjectIDFromHex(claims.OrganizationID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	userID, _ := primitive.ObjectIDFromHex(claims.UserID)
	return orgID, userID, true
}

// Create registers a new scheduled report
func (c *ScheduleController) Create(ctx *fiber.Ctx) error {
	orgID, userID, ok := orgScope(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var scheduled ScheduledReport
	if err := ctx.BodyParser(&scheduled); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	scheduled.OrganizationID = orgID
	scheduled.CreatedBy = userID

	if err := c.ScheduleService.CreateSchedule(ctx.Context(), &scheduled); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(scheduled)
}

// List returns the org's scheduled reports
func (c *ScheduleController) List(ctx *fiber.Ctx) error {
	orgID, _, ok := orgScope(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	schedules, err := c.ScheduleService.ListSchedules(ctx.Context(), orgID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(schedules)
}

// Get returns one scheduled report
func (c *ScheduleController) Get(ctx *fiber.Ctx) error {
	orgID, _, ok := orgScope(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	scheduled, err := c.ScheduleService.GetSchedule(ctx.Context(), orgID, ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if scheduled == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule not found"})
	}
	return ctx.JSON(scheduled)
}

// Update replaces a scheduled report
func (c *ScheduleController) Update(ctx *fiber.Ctx) error {
	orgID, _, ok := orgScope(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	existing, err := c.ScheduleService.GetSchedule(ctx.Context(), orgID, ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if existing == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule not found"})
	}

	var scheduled ScheduledReport
	if err := ctx.BodyParser(&scheduled); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	scheduled.ID = existing.ID
	scheduled.OrganizationID = orgID
	scheduled.CreatedBy = existing.CreatedBy
	scheduled.CreatedAt = existing.CreatedAt

	if err := c.ScheduleService.UpdateSchedule(ctx.Context(), &scheduled); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(scheduled)
}

// Delete removes a scheduled report
func (c *ScheduleController) Delete(ctx *fiber.Ctx) error {
	orgID, _, ok := orgScope(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := c.ScheduleService.DeleteSchedule(ctx.Context(), orgID, ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Run triggers an immediate execution
func (c *ScheduleController) Run(ctx *fiber.Ctx) error {
	orgID, _, ok := orgScope(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := c.ScheduleService.RunNow(ctx.Context(), orgID, ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "completed"})
}

// Logs returns the recent run history
func (c *ScheduleController) Logs(ctx *fiber.Ctx) error {
	orgID, _, ok := orgScope(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	scheduled, err := c.ScheduleService.GetSchedule(ctx.Context(), orgID, ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if scheduled == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule not found"})
	}

	limit, _ := strconv.Atoi(ctx.Query("limit", "50"))
	logs, err := c.ScheduleService.GetRunLogs(ctx.Context(), ctx.Params("id"), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(logs)
}
