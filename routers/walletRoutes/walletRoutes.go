package walletRoutes

import (
	walletController "renteo/controllers/wallet"
	"renteo/middleware"
	walletValidator "renteo/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet", middleware.JWTMiddleware)

	// User routes
	walletGroup.Get("/balance", walletController.GetWalletBalance)
	walletGroup.Post("/deposit", middleware.CheckPermissionMiddleware("wallet-deposit"), walletValidator.Amount(), walletController.DepositToWallet)
	walletGroup.Post("/hold", walletValidator.Amount(), walletController.HoldDeposit)
	walletGroup.Get("/history", walletController.GetWalletHistory)

	// Admin routes
	adminGroup := walletGroup.Group("/admin", middleware.RequireRole("ADMIN"))
	adminGroup.Post("/release", walletController.ReleaseDeposit)
	adminGroup.Post("/adjust", walletController.AdminAdjustBalance)
}
