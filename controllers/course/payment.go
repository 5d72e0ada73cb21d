package controllers

import (
	"errors"
	"fmt"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InitiateCoursePayment starts the gateway round trip for a whole course,
// before any teacher is chosen. Nothing durable is written: only a transient
// pending record keyed by the gateway payment id, with an expiry. On gateway
// failure no local state is mutated at all.
func InitiateCoursePayment(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if crs.EffectivePrice() == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is free. Enroll directly in an offering.", nil)
	}

	if HasPaidForCourse(db, user.ID, crs.ID) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already paid for this course.", nil)
	}

	amount := crs.EffectivePrice()
	returnURL := fmt.Sprintf("%s/payment/paypal/execute", config.AppConfig.FrontendBaseURL)
	cancelURL := fmt.Sprintf("%s/payment/paypal/cancel", config.AppConfig.FrontendBaseURL)

	handoff, err := utils.Gateway.CreatePayment(amount, config.AppConfig.Currency, returnURL, cancelURL, "Course: "+crs.Title)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway is unavailable. Please try again later.", nil)
	}

	cID := crs.ID
	pending := courseModels.PendingPayment{
		GatewayPaymentID: handoff.PaymentID,
		StudentID:        user.ID,
		CourseID:         &cID,
		Amount:           amount,
		ExpiresAt:        time.Now().Add(courseModels.PendingPaymentTTL),
	}
	if err := db.Create(&pending).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment intent!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment created. Redirect the payer to the approval URL.", fiber.Map{
		"payment_id":   handoff.PaymentID,
		"approval_url": handoff.ApprovalURL,
		"amount":       amount,
		"currency":     config.AppConfig.Currency,
	})
}

// InitiateOfferingPayment is the offering-level flow: the teacher is already
// chosen, so reconciliation will create the enrollment together with the
// payment.
func InitiateOfferingPayment(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	offeringID := c.Locals("offeringID").(int)

	db := database.Database.Db

	var offering courseModels.CourseOffering
	if err := db.Where("id = ? AND is_deleted = ?", offeringID, false).First(&offering).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course offering not found!", nil)
	}

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", offering.CourseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing courseModels.Enrollment
	if err := db.Where("student_id = ? AND course_offering_id = ?", user.ID, offering.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course offering.", nil)
	}

	if crs.EffectivePrice() == 0 || HasPaidForCourse(db, user.ID, crs.ID) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No payment needed. Enroll directly.", nil)
	}

	amount := crs.EffectivePrice()
	returnURL := fmt.Sprintf("%s/payment/paypal/execute", config.AppConfig.FrontendBaseURL)
	cancelURL := fmt.Sprintf("%s/payment/paypal/cancel", config.AppConfig.FrontendBaseURL)

	handoff, err := utils.Gateway.CreatePayment(amount, config.AppConfig.Currency, returnURL, cancelURL, "Course: "+crs.Title)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway is unavailable. Please try again later.", nil)
	}

	oID := offering.ID
	cID := crs.ID
	pending := courseModels.PendingPayment{
		GatewayPaymentID: handoff.PaymentID,
		StudentID:        user.ID,
		CourseID:         &cID,
		CourseOfferingID: &oID,
		Amount:           amount,
		ExpiresAt:        time.Now().Add(courseModels.PendingPaymentTTL),
	}
	if err := db.Create(&pending).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment intent!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment created. Redirect the payer to the approval URL.", fiber.Map{
		"payment_id":   handoff.PaymentID,
		"approval_url": handoff.ApprovalURL,
		"amount":       amount,
		"currency":     config.AppConfig.Currency,
	})
}

// ExecutePayment reconciles the gateway redirect into a durable Payment row.
// Amount and target come from the pending record fixed at initiation, never
// from redirect parameters. The unique gateway payment id makes the whole
// operation idempotent: a replayed callback returns the recorded payment
// instead of creating a second one.
func ExecutePayment(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedExecutePayment").(*struct {
		PaymentID string `json:"paymentId"`
		PayerID   string `json:"PayerID"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Already reconciled? Return the recorded result. Scoped to the acting
	// student so nobody can read another payer's row by replaying their
	// gateway id.
	var processed courseModels.Payment
	if err := db.Where("gateway_payment_id = ? AND student_id = ?", reqData.PaymentID, user.ID).First(&processed).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment already processed.", paymentResult(db, &processed))
	}

	var pending courseModels.PendingPayment
	if err := db.Where("gateway_payment_id = ? AND student_id = ?", reqData.PaymentID, user.ID).First(&pending).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment session not found or expired. Please start again.", nil)
	}

	if time.Now().After(pending.ExpiresAt) {
		db.Unscoped().Delete(&pending)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment session expired. Please start again.", nil)
	}

	// A second pending session can exist when the student initiated twice
	// before coming back. The first reconciliation already paid for the
	// course; capture nothing for the rest.
	if pending.CourseID != nil && HasPaidForCourse(db, pending.StudentID, *pending.CourseID) {
		db.Unscoped().Delete(&pending)
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already paid for this course.", nil)
	}

	if err := utils.Gateway.ExecutePayment(reqData.PaymentID, reqData.PayerID); err != nil {
		if errors.Is(err, utils.ErrGatewayUnavailable) {
			// Pending record stays so the user can retry.
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway is unavailable. Please try again.", nil)
		}
		db.Unscoped().Delete(&pending)
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "Payment failed. No money was captured; please start a new payment.", nil)
	}

	gatewayID := reqData.PaymentID
	payment := courseModels.Payment{
		StudentID:        pending.StudentID,
		CourseID:         pending.CourseID,
		CourseOfferingID: pending.CourseOfferingID,
		Amount:           pending.Amount,
		PaymentMethod:    "paypal",
		Status:           courseModels.PaymentSuccess,
		TransactionID:    utils.GenerateTransactionID(db, "paypal"),
		GatewayPaymentID: &gatewayID,
		PayerID:          reqData.PayerID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		// Legacy offering-level flow: the enrollment rides in the same
		// transaction as the payment.
		if pending.CourseOfferingID != nil {
			enrollment := courseModels.Enrollment{
				StudentID:        pending.StudentID,
				CourseOfferingID: *pending.CourseOfferingID,
				PaymentID:        &payment.ID,
				EnrolledAt:       time.Now(),
			}
			if err := tx.Create(&enrollment).Error; err != nil && !isUniqueViolation(err) {
				return err
			}
		}
		return tx.Unscoped().Delete(&pending).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race against a duplicate callback; the other writer's
			// row is the payment.
			if err := db.Where("gateway_payment_id = ? AND student_id = ?", reqData.PaymentID, user.ID).First(&processed).Error; err == nil {
				return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment already processed.", paymentResult(db, &processed))
			}
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
	}

	courseTitle := ""
	if pending.CourseID != nil {
		var crs courseModels.Course
		if err := db.Where("id = ?", *pending.CourseID).First(&crs).Error; err == nil {
			courseTitle = crs.Title
		}
	}
	utils.SendPaymentReceiptEmail(user.Email, user.Username, courseTitle, payment.TransactionID, payment.Amount, config.AppConfig.Currency)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment successful!", paymentResult(db, &payment))
}

// paymentResult shapes the reconciliation response; course-level payments
// still need a teacher picked, which the caller is told about.
func paymentResult(db *gorm.DB, payment *courseModels.Payment) fiber.Map {
	result := fiber.Map{
		"payment":                     payment,
		"transaction_id":              payment.TransactionID,
		"requires_offering_selection": payment.CourseOfferingID == nil,
	}
	if payment.CourseID != nil {
		result["course_id"] = *payment.CourseID
	}
	return result
}

// CancelPayment discards the pending record when the payer cancels at the
// gateway. No durable payment exists yet, so there is nothing else to undo.
func CancelPayment(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	paymentID := c.Query("paymentId")
	if paymentID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "paymentId is required!", nil)
	}

	db := database.Database.Db

	var pending courseModels.PendingPayment
	if err := db.Where("gateway_payment_id = ? AND student_id = ?", paymentID, user.ID).First(&pending).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment session not found!", nil)
	}

	db.Unscoped().Delete(&pending)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment cancelled. No money was captured.", nil)
}

// GetPaymentHistory lists the acting student's durable payments.
func GetPaymentHistory(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var payments []courseModels.Payment
	if err := db.Where("student_id = ?", user.ID).Order("created_at desc").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments": payments,
		"total":    len(payments),
	})
}

// GetPaymentByTransactionID fetches one of the acting student's payments by
// its public transaction id.
func GetPaymentByTransactionID(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	transactionID := c.Params("transaction_id")

	var payment courseModels.Payment
	if err := database.Database.Db.Where("transaction_id = ? AND student_id = ?", transactionID, user.ID).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment fetched successfully!", payment)
}
