package adminRoutes

import (
	adminController "renteo/controllers/admin"
	"renteo/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	adminGroup.Get("/users", adminController.UserList)
	adminGroup.Get("/users/:id", adminController.GetUser)
	adminGroup.Patch("/users/:id/block", adminController.BlockUser)
	adminGroup.Patch("/users/:id/role", adminController.ChangeUserRole)
	adminGroup.Get("/stats", adminController.PlatformStats)
	adminGroup.Get("/maintenance", adminController.GetMaintenance)
	adminGroup.Put("/maintenance", adminController.SetMaintenance)
}
