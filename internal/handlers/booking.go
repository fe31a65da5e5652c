package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/driveschool/internal/middleware"
	"github.com/example/driveschool/internal/models"
	"github.com/example/driveschool/internal/notify"
	"github.com/example/driveschool/internal/scheduling"
	"github.com/example/driveschool/internal/services"
	"github.com/example/driveschool/internal/utils"
)

const dateLayout = "2006-01-02"

// BookingHandler manages lesson bookings.
type BookingHandler struct {
	db    *gorm.DB
	bus   *notify.Bus
	email *services.EmailService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(db *gorm.DB, bus *notify.Bus, email *services.EmailService) *BookingHandler {
	return &BookingHandler{db: db, bus: bus, email: email}
}

type createBookingRequest struct {
	InstructorID string `json:"instructor_id"`
	ClassTypeID  string `json:"class_type_id"`
	Location     string `json:"location"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	Duration     int    `json:"duration"`
	Notes        string `json:"notes"`
}

type validatedSlot struct {
	instructorID uuid.UUID
	classTypeID  *uuid.UUID
	date         time.Time
	start        int
	end          int
	endTime      string
}

// validateSlot parses and checks a candidate slot: well-formed times,
// open availability window, no buffered conflict with the instructor's
// other bookings on that day. excludeID skips the booking being
// rescheduled.
func (h *BookingHandler) validateSlot(req createBookingRequest, excludeID *uuid.UUID) (*validatedSlot, error) {
	instructorID, err := uuid.Parse(req.InstructorID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid instructor_id")
	}

	if req.Location == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "location is required")
	}
	if req.Duration <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "duration must be positive")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	start, err := scheduling.ParseClock(req.StartTime)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	end := start + req.Duration
	if end > 24*60 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "lesson may not cross midnight")
	}
	endTime, err := scheduling.AddMinutes(req.StartTime, req.Duration)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var classTypeID *uuid.UUID
	if req.ClassTypeID != "" {
		id, err := uuid.Parse(req.ClassTypeID)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid class_type_id")
		}
		classTypeID = &id
	}

	window, err := h.resolveWindow(date)
	if err != nil {
		return nil, err
	}
	if !scheduling.SlotInside(window, start, end) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "requested slot is outside available hours")
	}

	slots, err := h.instructorSlots(instructorID, date, excludeID)
	if err != nil {
		return nil, err
	}
	if scheduling.HasConflict(start, end, req.Location, slots) {
		return nil, fiber.NewError(fiber.StatusConflict, "slot conflicts with another booking")
	}

	return &validatedSlot{
		instructorID: instructorID,
		classTypeID:  classTypeID,
		date:         date,
		start:        start,
		end:          end,
		endTime:      endTime,
	}, nil
}

func (h *BookingHandler) resolveWindow(date time.Time) (scheduling.Window, error) {
	var specialRows []models.SpecialAvailability
	if err := h.db.Where("start_date <= ? AND end_date >= ?", date, date).
		Find(&specialRows).Error; err != nil {
		return scheduling.Window{}, err
	}

	var globalRows []models.GlobalAvailability
	if err := h.db.Where("day = ?", int(date.Weekday())).
		Find(&globalRows).Error; err != nil {
		return scheduling.Window{}, err
	}

	return scheduling.Resolve(date, toSpecialRules(specialRows), toGlobalRules(globalRows)), nil
}

// instructorSlots loads the instructor's active bookings for the day as
// minute-of-day slots. Cancelled lessons do not block the calendar.
func (h *BookingHandler) instructorSlots(instructorID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]scheduling.BookingSlot, error) {
	query := h.db.Where("instructor_id = ? AND date = ? AND status <> ?",
		instructorID, date, models.BookingCancelled)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}

	slots := make([]scheduling.BookingSlot, 0, len(bookings))
	for _, b := range bookings {
		start, err := scheduling.ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		slots = append(slots, scheduling.BookingSlot{
			Start:    start,
			End:      start + b.Duration,
			Location: b.Location,
		})
	}
	return slots, nil
}

// CreateBooking books a lesson. The conflict check and the insert are
// two separate operations with no lock between them, so two concurrent
// requests for the same slot can both pass; a unique constraint on
// instructor+date+start_time would close the race at the cost of a
// different error surface.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	slot, err := h.validateSlot(req, nil)
	if err != nil {
		return err
	}

	booking := models.Booking{
		UserID:        userID,
		InstructorID:  slot.instructorID,
		ClassTypeID:   slot.classTypeID,
		Location:      req.Location,
		Date:          slot.date,
		StartTime:     req.StartTime,
		EndTime:       slot.endTime,
		Duration:      req.Duration,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentUnpaid,
		Notes:         req.Notes,
	}

	if err := h.db.Create(&booking).Error; err != nil {
		return err
	}

	h.bus.Publish(notify.Event{
		Type:         notify.EventBookingCreated,
		BookingID:    booking.ID,
		InstructorID: booking.InstructorID,
		Message: fmt.Sprintf("New booking on %s at %s (%s)",
			booking.Date.Format(dateLayout), booking.StartTime, booking.Location),
	})

	var student models.User
	if err := h.db.First(&student, "id = ?", userID).Error; err == nil {
		_ = h.email.SendBookingConfirmation(student.Email, &booking)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": booking})
}

// ListBookings returns bookings visible to the caller: students see
// their own, instructors see their schedule, admins see everything.
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	query := h.db.Model(&models.Booking{})
	switch middleware.GetCurrentUserRole(c) {
	case models.RoleAdmin:
	case models.RoleInstructor:
		query = query.Where("instructor_id = ?", userID)
	default:
		query = query.Where("user_id = ?", userID)
	}

	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		query = query.Where("date = ?", parsed)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	pg := utils.ParsePagination(c)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var bookings []models.Booking
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("date desc, start_time desc").Find(&bookings).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bookings, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

// GetBooking returns a single booking if the caller may see it.
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	booking, err := h.loadVisible(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": booking})
}

type rescheduleRequest struct {
	Location  string `json:"location"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

// RescheduleBooking moves a booking to a new slot, running the same
// availability and conflict pipeline while ignoring the booking itself.
func (h *BookingHandler) RescheduleBooking(c *fiber.Ctx) error {
	booking, err := h.loadVisible(c)
	if err != nil {
		return err
	}

	if booking.Status == models.BookingCompleted || booking.Status == models.BookingCancelled {
		return fiber.NewError(fiber.StatusBadRequest, "booking can no longer be rescheduled")
	}

	var req rescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Location == "" {
		req.Location = booking.Location
	}
	if req.Duration == 0 {
		req.Duration = booking.Duration
	}
	if req.Date == "" {
		req.Date = booking.Date.Format(dateLayout)
	}
	if req.StartTime == "" {
		req.StartTime = booking.StartTime
	}

	slot, err := h.validateSlot(createBookingRequest{
		InstructorID: booking.InstructorID.String(),
		Location:     req.Location,
		Date:         req.Date,
		StartTime:    req.StartTime,
		Duration:     req.Duration,
	}, &booking.ID)
	if err != nil {
		return err
	}

	booking.Location = req.Location
	booking.Date = slot.date
	booking.StartTime = req.StartTime
	booking.EndTime = slot.endTime
	booking.Duration = req.Duration

	if err := h.db.Save(&booking).Error; err != nil {
		return err
	}

	h.bus.Publish(notify.Event{
		Type:         notify.EventBookingRescheduled,
		BookingID:    booking.ID,
		InstructorID: booking.InstructorID,
		Message: fmt.Sprintf("Booking moved to %s at %s (%s)",
			booking.Date.Format(dateLayout), booking.StartTime, booking.Location),
	})

	return c.JSON(fiber.Map{"success": true, "data": booking})
}

type updateStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// UpdateStatus lets instructors and admins move a booking through its
// lifecycle.
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var booking models.Booking
	if err := h.db.First(&booking, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return err
	}

	if middleware.GetCurrentUserRole(c) == models.RoleInstructor {
		userID, _ := middleware.GetCurrentUserID(c)
		if booking.InstructorID != userID {
			return fiber.NewError(fiber.StatusForbidden, "not your booking")
		}
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Status != "" {
		switch req.Status {
		case models.BookingPending, models.BookingApproved, models.BookingCompleted, models.BookingCancelled:
			booking.Status = req.Status
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
	}
	if req.PaymentStatus != "" {
		switch req.PaymentStatus {
		case models.PaymentUnpaid, models.PaymentPaid, models.PaymentRefunded:
			booking.PaymentStatus = req.PaymentStatus
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment status")
		}
	}

	if err := h.db.Save(&booking).Error; err != nil {
		return err
	}

	h.bus.Publish(notify.Event{
		Type:         notify.EventBookingStatus,
		BookingID:    booking.ID,
		InstructorID: booking.InstructorID,
		Message:      fmt.Sprintf("Booking status changed to %s", booking.Status),
	})

	return c.JSON(fiber.Map{"success": true, "data": booking})
}

// CancelBooking marks a booking cancelled. Rows are kept for history.
func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	booking, err := h.loadVisible(c)
	if err != nil {
		return err
	}

	if booking.Status == models.BookingCancelled {
		return fiber.NewError(fiber.StatusBadRequest, "booking already cancelled")
	}

	booking.Status = models.BookingCancelled
	if err := h.db.Save(&booking).Error; err != nil {
		return err
	}

	h.bus.Publish(notify.Event{
		Type:         notify.EventBookingCancelled,
		BookingID:    booking.ID,
		InstructorID: booking.InstructorID,
		Message: fmt.Sprintf("Booking on %s at %s cancelled",
			booking.Date.Format(dateLayout), booking.StartTime),
	})

	return c.JSON(fiber.Map{"success": true, "data": booking})
}

// loadVisible fetches the booking in :id and enforces ownership: the
// booking student, its instructor, or an admin.
func (h *BookingHandler) loadVisible(c *fiber.Ctx) (models.Booking, error) {
	var booking models.Booking

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return booking, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return booking, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.First(&booking, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return booking, fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return booking, err
	}

	role := middleware.GetCurrentUserRole(c)
	if role != models.RoleAdmin && booking.UserID != userID && booking.InstructorID != userID {
		return booking, fiber.NewError(fiber.StatusForbidden, "not your booking")
	}

	return booking, nil
}

func toSpecialRules(rows []models.SpecialAvailability) []scheduling.SpecialRule {
	rules := make([]scheduling.SpecialRule, len(rows))
	for i, r := range rows {
		rules[i] = scheduling.SpecialRule{
			Day:         time.Weekday(r.Day),
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			IsAvailable: r.IsAvailable,
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
			CreatedAt:   r.CreatedAt,
		}
	}
	return rules
}

func toGlobalRules(rows []models.GlobalAvailability) []scheduling.GlobalRule {
	rules := make([]scheduling.GlobalRule, len(rows))
	for i, r := range rows {
		rules[i] = scheduling.GlobalRule{
			Day:         time.Weekday(r.Day),
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			IsAvailable: r.IsAvailable,
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
			CreatedAt:   r.CreatedAt,
		}
	}
	return rules
}
