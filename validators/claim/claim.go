package claimValidator

import (
	"strconv"
	"strings"

	"renteo/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ClaimRequest carries the fields of a new insurance claim submission.
type ClaimRequest struct {
	BookingRef   string  `json:"bookingRef" validate:"required,min=4,max=40"`
	VehicleDesc  string  `json:"vehicleDesc" validate:"required,min=3,max=120"`
	IncidentDate string  `json:"incidentDate" validate:"required,datetime=2006-01-02"`
	IncidentType string  `json:"incidentType" validate:"required,oneof=collision theft vandalism mechanical other"`
	Description  string  `json:"description" validate:"required,min=20,max=2000"`
	ClaimAmount  float64 `json:"claimAmount" validate:"required,gt=0"`
}

var validate = validator.New()

func claimFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "BookingRef":
		return "Booking reference is required (4-40 characters)!"
	case "VehicleDesc":
		return "Vehicle description is required (3-120 characters)!"
	case "IncidentDate":
		return "Incident date must be in YYYY-MM-DD format!"
	case "IncidentType":
		return "Incident type must be one of collision, theft, vandalism, mechanical, other!"
	case "Description":
		return "Description must be between 20 and 2000 characters!"
	case "ClaimAmount":
		return "Claim amount must be greater than 0!"
	default:
		return "Invalid value!"
	}
}

// FileClaim validates the multipart fields of a claim submission.
func FileClaim() fiber.Handler {
	return func(c *fiber.Ctx) error {
		amount, _ := strconv.ParseFloat(strings.TrimSpace(c.FormValue("claimAmount")), 64)

		reqData := &ClaimRequest{
			BookingRef:   strings.TrimSpace(c.FormValue("bookingRef")),
			VehicleDesc:  strings.TrimSpace(c.FormValue("vehicleDesc")),
			IncidentDate: strings.TrimSpace(c.FormValue("incidentDate")),
			IncidentType: strings.TrimSpace(c.FormValue("incidentType")),
			Description:  strings.TrimSpace(c.FormValue("description")),
			ClaimAmount:  amount,
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fe := range err.(validator.ValidationErrors) {
				field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
				errors[field] = claimFieldError(fe)
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedClaim", reqData)
		return c.Next()
	}
}
