package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// CertificateWithCourse pairs a certificate with the course and term it was
// earned in.
type CertificateWithCourse struct {
	courseModels.Certificate
	CourseTitle string `json:"course_title"`
	TeacherName string `json:"teacher_name"`
	Semester    string `json:"semester"`
	Year        int    `json:"year"`
}

func enrichCertificate(cert courseModels.Certificate) CertificateWithCourse {
	db := database.Database.Db
	result := CertificateWithCourse{Certificate: cert}

	var offering courseModels.CourseOffering
	if err := db.Where("id = ?", cert.CourseOfferingID).First(&offering).Error; err != nil {
		return result
	}
	result.Semester = offering.Semester
	result.Year = offering.Year

	var crs courseModels.Course
	if err := db.Where("id = ?", offering.CourseID).First(&crs).Error; err == nil {
		result.CourseTitle = crs.Title
	}

	var teacher struct {
		Username string
	}
	if err := db.Table("users").Select("username").Where("id = ?", offering.TeacherID).Scan(&teacher).Error; err == nil {
		result.TeacherName = teacher.Username
	}

	return result
}

// GetMyCertificates lists the student's earned certificates.
func GetMyCertificates(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certs []courseModels.Certificate
	if err := database.Database.Db.Where("student_id = ?", user.ID).Order("issued_at desc").Find(&certs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certs))
	for i, cert := range certs {
		result[i] = enrichCertificate(cert)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

// GetCertificate looks up a certificate by its public identifier. Only the
// certificate's owner may view it.
func GetCertificate(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificateID := c.Locals("certificateID").(string)

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("certificate_id = ?", certificateID).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if cert.StudentID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only view your own certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", enrichCertificate(cert))
}
