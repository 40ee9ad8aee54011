package notificationRoutes

import (
	notificationController "renteo/controllers/notification"
	"renteo/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notifications", middleware.JWTMiddleware)

	notificationGroup.Get("/", notificationController.MyNotifications)
	notificationGroup.Patch("/read-all", notificationController.MarkAllRead)
	notificationGroup.Patch("/:id/read", notificationController.MarkRead)
}
