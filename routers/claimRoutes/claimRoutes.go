package claimRoutes

import (
	claimController "renteo/controllers/claim"
	"renteo/middleware"
	claimValidator "renteo/validators/claim"

	"github.com/gofiber/fiber/v2"
)

func SetupClaimRoutes(app *fiber.App) {
	claimGroup := app.Group("/claims", middleware.JWTMiddleware)

	// User routes
	claimGroup.Post("/", middleware.CheckPermissionMiddleware("file-claim"), claimValidator.FileClaim(), claimController.FileClaim)
	claimGroup.Get("/mine", claimController.MyClaims)
	claimGroup.Get("/:id", claimController.GetClaim)

	// Admin routes
	adminGroup := claimGroup.Group("/admin", middleware.RequireRole("ADMIN"))
	adminGroup.Get("/list", claimController.ListClaims)
	adminGroup.Get("/stats", claimController.ClaimStats)
	adminGroup.Patch("/:id/status", claimController.UpdateClaimStatus)
}
