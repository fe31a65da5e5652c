package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/driveschool/internal/models"
	"github.com/example/driveschool/internal/otp"
	"github.com/example/driveschool/internal/services"
	"github.com/example/driveschool/internal/utils"
)

// PasswordResetHandler manages the forgot-password flow: issue a code,
// verify it non-destructively, then consume it alongside the new
// password.
type PasswordResetHandler struct {
	db    *gorm.DB
	codes otp.Store
	email *services.EmailService
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(db *gorm.DB, codes otp.Store, email *services.EmailService) *PasswordResetHandler {
	return &PasswordResetHandler{db: db, codes: codes, email: email}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset code and mails it to the account.
func (h *PasswordResetHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	code, err := h.codes.Issue(req.Email, otp.PurposePasswordReset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate code")
	}
	_ = h.email.SendOTP(req.Email, code, otp.PurposePasswordReset)

	return c.JSON(fiber.Map{"success": true, "message": "reset code sent"})
}

type verifyResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyResetCode is step one of the reset: checks the code without
// consuming it, so the client can show the new-password form before the
// final submit re-validates.
func (h *PasswordResetHandler) VerifyResetCode(c *fiber.Ctx) error {
	var req verifyResetCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and code are required")
	}

	if !h.codes.Check(req.Email, req.Code, otp.PurposePasswordReset) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired code")
	}

	return c.JSON(fiber.Map{"success": true, "verified": true})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ResetPassword consumes the code and updates the account password.
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email, code and new_password are required")
	}

	if len(req.NewPassword) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	if !h.codes.VerifyFinal(req.Email, req.Code, otp.PurposePasswordReset) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired code")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := h.db.Model(&models.User{}).
		Where("email = ?", req.Email).
		Update("password_hash", hash).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update password")
	}

	return c.JSON(fiber.Map{"success": true, "message": "password updated successfully"})
}
