package walletValidator

import (
	"renteo/middleware"

	"github.com/gofiber/fiber/v2"
)

// Amount validator middleware for deposits and holds
func Amount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount     float64 `json:"amount"`
			BookingRef string  `json:"bookingRef"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Amount
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedWallet", reqData)
		return c.Next()
	}
}
