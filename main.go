package main

import (
	"log"

	"renteo/config"
	"renteo/database"
	adminRoutes "renteo/routers/adminRoutes"
	authRoutes "renteo/routers/authRoutes"
	claimRoutes "renteo/routers/claimRoutes"
	notificationRoutes "renteo/routers/notificationRoutes"
	verificationRoutes "renteo/routers/verificationRoutes"
	walletRoutes "renteo/routers/walletRoutes"
	"renteo/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // document and selfie uploads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded documents and selfies
	app.Static("/uploads", config.AppConfig.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	verificationRoutes.SetupVerificationRoutes(app)
	claimRoutes.SetupClaimRoutes(app)
	walletRoutes.SetupWalletRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	utils.InitializeReviewScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
