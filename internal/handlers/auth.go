package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/driveschool/internal/config"
	"github.com/example/driveschool/internal/models"
	"github.com/example/driveschool/internal/otp"
	"github.com/example/driveschool/internal/ratelimit"
	"github.com/example/driveschool/internal/services"
	"github.com/example/driveschool/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	codes otp.Store
	guard *ratelimit.Guard
	email *services.EmailService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, codes otp.Store, guard *ratelimit.Guard, email *services.EmailService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, codes: codes, guard: guard, email: email}
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// Register creates a new unverified account and mails a verification code.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.FirstName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "user already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Role:         models.RoleStudent,
		IsVerified:   false,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	code, err := h.codes.Issue(req.Email, otp.PurposeRegistration)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
	}
	_ = h.email.SendOTP(req.Email, code, otp.PurposeRegistration)

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"role":       user.Role,
		},
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user. Failed attempts are counted per
// (email, client IP) against the daily limit; once exceeded the handler
// returns the LIMIT_EXCEEDED token carrying the reset date.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	ip := utils.ClientIP(c)
	ctx := c.Context()

	exceeded, err := h.guard.HasExceededMax(ctx, req.Email, ip)
	if err != nil {
		return err
	}
	if exceeded {
		info, err := h.guard.AttemptsInfo(ctx, req.Email, ip)
		if err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusTooManyRequests, h.guard.LimitExceededError(info))
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return h.failLogin(c, req.Email, ip)
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return h.failLogin(c, req.Email, ip)
	}

	if err := h.guard.RecordAttempt(ctx, req.Email, ip, true); err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":          user.ID,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"email":       user.Email,
			"role":        user.Role,
			"is_verified": user.IsVerified,
		},
		"token": token,
	})
}

func (h *AuthHandler) failLogin(c *fiber.Ctx, email, ip string) error {
	ctx := c.Context()
	if err := h.guard.RecordAttempt(ctx, email, ip, false); err != nil {
		return err
	}

	info, err := h.guard.AttemptsInfo(ctx, email, ip)
	if err != nil {
		return err
	}
	return fiber.NewError(fiber.StatusUnauthorized,
		fmt.Sprintf("invalid credentials (%d attempts remaining)", info.Remaining))
}

type requestVerificationRequest struct {
	Email string `json:"email"`
}

// RequestVerification re-issues a registration code for an unverified
// account.
func (h *AuthHandler) RequestVerification(c *fiber.Ctx) error {
	var req requestVerificationRequest
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

	if user.IsVerified {
		return fiber.NewError(fiber.StatusBadRequest, "account already verified")
	}

	code, err := h.codes.Issue(req.Email, otp.PurposeRegistration)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
	}
	_ = h.email.SendOTP(req.Email, code, otp.PurposeRegistration)

	return c.JSON(fiber.Map{"success": true, "message": "verification code sent"})
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyEmail consumes a registration code and marks the account verified.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req verifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and code are required")
	}

	if !h.codes.VerifyFinal(req.Email, req.Code, otp.PurposeRegistration) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired verification code")
	}

	if err := h.db.Model(&models.User{}).Where("email = ?", req.Email).
		Update("is_verified", true).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "verified": true})
}

// AttemptsInfo reports remaining login attempts for the requesting client.
func (h *AuthHandler) AttemptsInfo(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	info, err := h.guard.AttemptsInfo(c.Context(), email, utils.ClientIP(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": info})
}
