package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/driveschool/internal/config"
	"github.com/example/driveschool/internal/handlers"
	"github.com/example/driveschool/internal/middleware"
	"github.com/example/driveschool/internal/models"
	"github.com/example/driveschool/internal/notify"
	"github.com/example/driveschool/internal/otp"
	"github.com/example/driveschool/internal/ratelimit"
	"github.com/example/driveschool/internal/services"
)

// Deps holds the process-wide collaborators injected into handlers.
type Deps struct {
	Codes otp.Store
	Guard *ratelimit.Guard
	Bus   *notify.Bus
	Email *services.EmailService
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, deps Deps) {
	authHandler := handlers.NewAuthHandler(db, cfg, deps.Codes, deps.Guard, deps.Email)
	resetHandler := handlers.NewPasswordResetHandler(db, deps.Codes, deps.Email)
	bookingHandler := handlers.NewBookingHandler(db, deps.Bus, deps.Email)
	availabilityHandler := handlers.NewAvailabilityHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	notificationHandler := handlers.NewNotificationHandler(deps.Bus)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/request-verification", authHandler.RequestVerification)
	auth.Post("/verify-email", authHandler.VerifyEmail)
	auth.Get("/attempts", authHandler.AttemptsInfo)
	auth.Post("/forgot-password", resetHandler.ForgotPassword)
	auth.Post("/verify-reset-code", resetHandler.VerifyResetCode)
	auth.Post("/reset-password", resetHandler.ResetPassword)

	// Public catalog reads
	api.Get("/locations", catalogHandler.ListLocations)
	api.Get("/class-types", catalogHandler.ListClassTypes)
	api.Get("/price-packages", catalogHandler.ListPricePackages)
	api.Get("/instructors", profileHandler.ListInstructors)
	api.Get("/availability/resolve", availabilityHandler.Resolve)

	// Admin-only catalog writes
	admin := api.Group("", middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleAdmin))
	admin.Post("/locations", catalogHandler.CreateLocation)
	admin.Put("/locations/:id", catalogHandler.UpdateLocation)
	admin.Delete("/locations/:id", catalogHandler.DeleteLocation)
	admin.Post("/class-types", catalogHandler.CreateClassType)
	admin.Put("/class-types/:id", catalogHandler.UpdateClassType)
	admin.Delete("/class-types/:id", catalogHandler.DeleteClassType)
	admin.Post("/price-packages", catalogHandler.CreatePricePackage)
	admin.Put("/price-packages/:id", catalogHandler.UpdatePricePackage)
	admin.Delete("/price-packages/:id", catalogHandler.DeletePricePackage)

	admin.Get("/availability/global", availabilityHandler.ListGlobal)
	admin.Post("/availability/global", availabilityHandler.UpsertGlobal)
	admin.Delete("/availability/global/:id", availabilityHandler.DeleteGlobal)
	admin.Get("/availability/special", availabilityHandler.ListSpecial)
	admin.Post("/availability/special", availabilityHandler.UpsertSpecial)
	admin.Delete("/availability/special/:id", availabilityHandler.DeleteSpecial)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/bookings", bookingHandler.CreateBooking)
	protected.Get("/bookings", bookingHandler.ListBookings)
	protected.Get("/bookings/:id", bookingHandler.GetBooking)
	protected.Put("/bookings/:id/reschedule", bookingHandler.RescheduleBooking)
	protected.Patch("/bookings/:id/status",
		middleware.RequireRole(models.RoleInstructor), bookingHandler.UpdateStatus)
	protected.Delete("/bookings/:id", bookingHandler.CancelBooking)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	protected.Get("/notifications/stream",
		middleware.RequireRole(models.RoleInstructor), notificationHandler.Stream)
}
