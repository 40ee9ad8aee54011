package verificationValidator

import (
	"renteo/middleware"
	"renteo/verification"

	"github.com/gofiber/fiber/v2"
)

// PersonalInfo parses and validates the personal information payload.
// The field rules live in the verification package so the store can
// re-check them on submit; this middleware only fronts the HTTP layer.
func PersonalInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(verification.PersonalInfoInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := verification.ValidatePersonalInfo(*reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPersonalInfo", reqData)
		return c.Next()
	}
}

// PhoneOTP validates a phone verification code submission.
func PhoneOTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Code string `json:"code"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Code == "" {
			errors["code"] = "OTP code is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPhoneOTP", reqData)
		return c.Next()
	}
}
