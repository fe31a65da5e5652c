package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/driveschool/internal/models"
	"github.com/example/driveschool/internal/scheduling"
)

// AvailabilityHandler manages the weekly template and its date-ranged
// overrides, and exposes the resolver to the booking UI.
type AvailabilityHandler struct {
	db *gorm.DB
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

type globalAvailabilityRequest struct {
	Day         *int   `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (r *globalAvailabilityRequest) validate() (*models.GlobalAvailability, error) {
	if r.Day == nil || *r.Day < 0 || *r.Day > 6 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "day must be 0-6")
	}
	if _, err := scheduling.ParseClock(r.StartTime); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if _, err := scheduling.ParseClock(r.EndTime); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	row := &models.GlobalAvailability{
		Day:         *r.Day,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		IsAvailable: r.IsAvailable,
	}

	if (r.StartDate == "") != (r.EndDate == "") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "start_date and end_date must be set together")
	}
	if r.StartDate != "" {
		start, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
		}
		end, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
		}
		if end.Before(start) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "end_date before start_date")
		}
		row.StartDate = &start
		row.EndDate = &end
	}

	return row, nil
}

// ListGlobal returns the weekly template.
func (h *AvailabilityHandler) ListGlobal(c *fiber.Ctx) error {
	var rows []models.GlobalAvailability
	if err := h.db.Order("day asc, start_date asc").Find(&rows).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": rows})
}

// UpsertGlobal creates or replaces a template entry by its natural key
// (day, start_date, end_date).
func (h *AvailabilityHandler) UpsertGlobal(c *fiber.Ctx) error {
	var req globalAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	row, err := req.validate()
	if err != nil {
		return err
	}

	if err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "day"}, {Name: "start_date"}, {Name: "end_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"start_time", "end_time", "is_available", "updated_at",
		}),
	}).Create(row).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": row})
}

// DeleteGlobal removes a template entry.
func (h *AvailabilityHandler) DeleteGlobal(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.Delete(&models.GlobalAvailability{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type specialAvailabilityRequest struct {
	Day         *int   `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (r *specialAvailabilityRequest) validate() (*models.SpecialAvailability, error) {
	if r.Day == nil || *r.Day < 0 || *r.Day > 6 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "day must be 0-6")
	}
	if _, err := scheduling.ParseClock(r.StartTime); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if _, err := scheduling.ParseClock(r.EndTime); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if r.StartDate == "" || r.EndDate == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "start_date and end_date are required")
	}

	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "end_date before start_date")
	}

	return &models.SpecialAvailability{
		Day:         *r.Day,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		IsAvailable: r.IsAvailable,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

// ListSpecial returns the override entries.
func (h *AvailabilityHandler) ListSpecial(c *fiber.Ctx) error {
	var rows []models.SpecialAvailability
	if err := h.db.Order("start_date asc, day asc").Find(&rows).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": rows})
}

// UpsertSpecial creates or replaces an override by its natural key.
func (h *AvailabilityHandler) UpsertSpecial(c *fiber.Ctx) error {
	var req specialAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	row, err := req.validate()
	if err != nil {
		return err
	}

	if err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "day"}, {Name: "start_date"}, {Name: "end_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"start_time", "end_time", "is_available", "updated_at",
		}),
	}).Create(row).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": row})
}

// DeleteSpecial removes an override entry.
func (h *AvailabilityHandler) DeleteSpecial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if err := h.db.Delete(&models.SpecialAvailability{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Resolve returns the effective bookable window for a date. The booking
// UI calls this before offering time slots.
func (h *AvailabilityHandler) Resolve(c *fiber.Ctx) error {
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	var specialRows []models.SpecialAvailability
	if err := h.db.Where("start_date <= ? AND end_date >= ?", date, date).
		Find(&specialRows).Error; err != nil {
		return err
	}

	var globalRows []models.GlobalAvailability
	if err := h.db.Where("day = ?", int(date.Weekday())).
		Find(&globalRows).Error; err != nil {
		return err
	}

	window := scheduling.Resolve(date, toSpecialRules(specialRows), toGlobalRules(globalRows))

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"date":       c.Query("date"),
		"open":       window.Open,
		"start_time": window.StartTime,
		"end_time":   window.EndTime,
	}})
}
