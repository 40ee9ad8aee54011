package authRoutes

import (
	authController "renteo/controllers/auth"
	"renteo/middleware"
	authValidator "renteo/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), authController.Signup)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Get("/login/history", authValidator.LoginHistoryList(), middleware.JWTMiddleware, authController.LoginHistoryList)
	authGroup.Post("/send/otp", authValidator.SendOTP(), authController.SendOTP)
	authGroup.Patch("/verify/otp", authValidator.VerifyOTP(), authController.VerifyOTP)
	authGroup.Post("/forgot/password/send/otp", authValidator.SendOTP(), authController.ForgotPasswordSendOTP)
	authGroup.Patch("/forgot/password/verify/otp", authValidator.VerifyOTP(), authController.ForgotPasswordVerifyOTP)
	authGroup.Patch("/reset/password", authValidator.ResetPassword(), middleware.JWTMiddleware, authController.ResetPassword)
	authGroup.Put("/change/login/password", authValidator.ChangeLoginPassword(), middleware.JWTMiddleware, authController.ChangeLoginPassword)
}
