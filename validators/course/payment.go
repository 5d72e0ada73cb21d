package courseValidator

import (
	"strings"

	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// InitiateCoursePayment validates the course id for course-level payment
func InitiateCoursePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// InitiateOfferingPayment validates the offering id for offering-level payment
func InitiateOfferingPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		offeringID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Offering ID!", nil)
		}

		c.Locals("offeringID", offeringID)
		return c.Next()
	}
}

// ExecutePayment validates the gateway redirect payload. The ids come back
// from the gateway approval page, never from our own records.
func ExecutePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PaymentID string `json:"paymentId"`
			PayerID   string `json:"PayerID"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.PaymentID = strings.TrimSpace(reqData.PaymentID)
		reqData.PayerID = strings.TrimSpace(reqData.PayerID)

		if reqData.PaymentID == "" {
			errors["paymentId"] = "Payment ID is required!"
		}
		if reqData.PayerID == "" {
			errors["PayerID"] = "Payer ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExecutePayment", reqData)
		return c.Next()
	}
}
