package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/driveschool/internal/config"
	"github.com/example/driveschool/internal/database"
	"github.com/example/driveschool/internal/notify"
	"github.com/example/driveschool/internal/otp"
	"github.com/example/driveschool/internal/ratelimit"
	"github.com/example/driveschool/internal/routes"
	"github.com/example/driveschool/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "DriveSchool Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	codes := otp.NewMemoryStore()
	stop := make(chan struct{})
	defer close(stop)
	otp.StartSweeper(codes, cfg.OTPSweepInterval, stop)

	routes.Register(app, db, cfg, routes.Deps{
		Codes: codes,
		Guard: ratelimit.NewGuard(ratelimit.NewGormStore(db)),
		Bus:   notify.NewBus(),
		Email: services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom),
	})

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
