package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupTeacherRoutes sets up offering management routes for teachers
func SetupTeacherRoutes(app *fiber.App) {
	teacherGroup := app.Group("/teacher", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher))

	// Offerings
	teacherGroup.Post("/offering", validators.CreateOffering(), controllers.CreateOffering)
	teacherGroup.Put("/offering/:id", validators.UpdateOffering(), controllers.UpdateOffering)
	teacherGroup.Get("/offerings", controllers.GetMyOfferings)
	teacherGroup.Get("/offering/:id/enrollments", validators.OfferingID(), controllers.GetOfferingEnrollments)
	teacherGroup.Post("/offering/:id/grade", validators.AssignGrade(), controllers.AssignGrade)

	// Content
	teacherGroup.Post("/offering/:id/content", validators.AddContent(), controllers.AddContent)
	teacherGroup.Delete("/offering/:id/content/:content_id", validators.DeleteContent(), controllers.DeleteContent)

	// Quizzes
	teacherGroup.Post("/offering/:id/quiz", validators.CreateQuiz(), controllers.CreateQuiz)
	teacherGroup.Get("/offering/:id/quizzes", validators.OfferingID(), controllers.GetOfferingQuizzes)
}
