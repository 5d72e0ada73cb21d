package paymentRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up checkout and payment history routes
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent))

	// Checkout
	paymentGroup.Post("/course/:id/initiate", validators.InitiateCoursePayment(), controllers.InitiateCoursePayment)
	paymentGroup.Post("/offering/:id/initiate", validators.InitiateOfferingPayment(), controllers.InitiateOfferingPayment)
	paymentGroup.Post("/execute", validators.ExecutePayment(), controllers.ExecutePayment)
	paymentGroup.Get("/cancel", controllers.CancelPayment)

	// History
	paymentGroup.Get("/history", controllers.GetPaymentHistory)
	paymentGroup.Get("/transaction/:transaction_id", controllers.GetPaymentByTransactionID)
}
