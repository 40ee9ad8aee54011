package verificationRoutes

import (
	verificationController "renteo/controllers/verification"
	"renteo/middleware"
	verificationValidator "renteo/validators/verification"

	"github.com/gofiber/fiber/v2"
)

func SetupVerificationRoutes(app *fiber.App) {
	verificationGroup := app.Group("/verification", middleware.JWTMiddleware)

	// Record and navigation
	verificationGroup.Get("/", verificationController.GetRecord)
	verificationGroup.Get("/status", verificationController.GetStatus)
	verificationGroup.Post("/navigate", verificationController.Navigate)
	verificationGroup.Post("/next", verificationController.Next)
	verificationGroup.Post("/previous", verificationController.Previous)

	// Step submissions
	verificationGroup.Put("/personal-info", verificationValidator.PersonalInfo(), verificationController.UpdatePersonalInfo)
	verificationGroup.Post("/documents", verificationController.UploadDocument)
	verificationGroup.Delete("/documents/:type", verificationController.RemoveDocument)
	verificationGroup.Post("/selfie", verificationController.UploadSelfie)
	verificationGroup.Post("/phone/send-otp", verificationController.SendPhoneOTP)
	verificationGroup.Post("/phone/verify-otp", verificationValidator.PhoneOTP(), verificationController.VerifyPhoneOTP)
	verificationGroup.Put("/address", verificationController.UpdateAddress)

	// Submission lifecycle
	verificationGroup.Post("/submit", verificationController.SubmitForReview)
	verificationGroup.Post("/reset", verificationController.Reset)

	// Admin review queue
	adminGroup := verificationGroup.Group("/admin", middleware.RequireRole("ADMIN"))
	adminGroup.Get("/pending", verificationController.ListPendingReviews)
	adminGroup.Get("/:userId", verificationController.GetReviewDetail)
	adminGroup.Post("/:userId/approve", verificationController.ApproveVerification)
	adminGroup.Post("/:userId/reject", verificationController.RejectVerification)
}
