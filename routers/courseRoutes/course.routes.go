package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course", middleware.JWTMiddleware)

	// Catalog
	courseGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", validators.CourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	offeringGroup := app.Group("/offering", middleware.JWTMiddleware)
	offeringGroup.Post("/:id/enroll", middleware.RequireRole(models.RoleStudent), validators.OfferingID(), controllers.EnrollInOffering)
	offeringGroup.Get("/:id/content", validators.OfferingID(), controllers.GetOfferingContent)

	// Quizzes
	quizGroup := app.Group("/quiz", middleware.JWTMiddleware)
	quizGroup.Get("/:id", validators.QuizID(), controllers.GetQuiz)
	quizGroup.Post("/:id/submit", middleware.RequireRole(models.RoleStudent), validators.SubmitQuiz(), controllers.SubmitQuiz)

	// Student records
	userGroup := app.Group("/user", middleware.JWTMiddleware)
	userGroup.Get("/enrollments", controllers.GetMyEnrollments)
	userGroup.Get("/attempts", controllers.GetMyAttempts)
	userGroup.Get("/attempts/:id", validators.AttemptID(), controllers.GetAttemptResult)
	userGroup.Get("/certificates", controllers.GetMyCertificates)
	userGroup.Get("/certificate/:certificate_id", validators.CertificateID(), controllers.GetCertificate)
}
