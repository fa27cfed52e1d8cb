package report

import (
	"errors"
	"fmt"

	"forwarddesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

func requestScope(ctx *fiber.Ctx) (primitive.ObjectID, primitive.ObjectID, error) {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, errors.New("missing claims")
	}
	orgID, err := primitive.ObjectIDFromHex(claims.OrganizationID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		// Dev bypass tokens carry a non-hex user id; reports are still
		// org-scoped so this only loses attribution.
		userID = primitive.NilObjectID
	}
	return orgID, userID, nil
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrConfiguration):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotImplemented):
		return fiber.StatusNotImplemented
	case errors.Is(err, mongo.ErrNoDocuments):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// Run executes an ad-hoc report from the posted config
func (c *ReportController) Run(ctx *fiber.Ctx) error {
	orgID, _, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req RunRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	data, err := c.ReportService.RunAdhoc(ctx.Context(), orgID, &req)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(data)
}

// RunSaved executes a saved report by id
func (c *ReportController) RunSaved(ctx *fiber.Ctx) error {
	orgID, _, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	data, err := c.ReportService.RunSaved(ctx.Context(), orgID, ctx.Params("id"))
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(data)
}

// Export runs an ad-hoc report and streams it in the requested format
func (c *ReportController) Export(ctx *fiber.Ctx) error {
	orgID, _, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req RunRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	format := ctx.Query("format", "csv")

	data, filename, mimeType, err := c.ReportService.ExportAdhoc(ctx.Context(), orgID, &req, format)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", mimeType)
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}

// ExportSaved exports a saved report by id
func (c *ReportController) ExportSaved(ctx *fiber.Ctx) error {
	orgID, _, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	format := ctx.Query("format", "csv")
	data, filename, mimeType, err := c.ReportService.ExportSaved(ctx.Context(), orgID, ctx.Params("id"), format)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", mimeType)
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}

// Create persists a saved report
func (c *ReportController) Create(ctx *fiber.Ctx) error {
	orgID, userID, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var report SavedReport
	if err := ctx.BodyParser(&report); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	report.OrganizationID = orgID
	report.UserID = userID

	if err := c.ReportService.CreateSavedReport(ctx.Context(), &report); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(report)
}

// List returns the org's saved reports, favorites first
func (c *ReportController) List(ctx *fiber.Ctx) error {
	orgID, _, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reports, err := c.ReportService.ListSavedReports(ctx.Context(), orgID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(reports)
}

// Get returns one saved report
func (c *ReportController) Get(ctx *fiber.Ctx) error {
	orgID, _, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	report, err := c.ReportService.GetSavedReport(ctx.Context(), orgID, ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
	}
	return ctx.JSON(report)
}

// Update replaces a saved report's config
func (c *ReportController) Update(ctx *fiber.Ctx) error {
	orgID, _, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var report SavedReport
	if err := ctx.BodyParser(&report); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.ReportService.UpdateSavedReport(ctx.Context(), orgID, ctx.Params("id"), &report); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(report)
}

// Delete removes a saved report
func (c *ReportController) Delete(ctx *fiber.Ctx) error {
	orgID, _, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := c.ReportService.DeleteSavedReport(ctx.Context(), orgID, ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Favorite toggles the favorite flag
func (c *ReportController) Favorite(ctx *fiber.Ctx) error {
	orgID, _, err := requestScope(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var body struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.ReportService.SetFavorite(ctx.Context(), orgID, ctx.Params("id"), body.IsFavorite); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
