package controllers

import (
	"strings"
	"time"

	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HasPaidForCourse reports whether the student holds a successful payment for
// the course, regardless of which offering (if any) it is attached to.
func HasPaidForCourse(db *gorm.DB, studentID, courseID uint) bool {
	var count int64
	db.Model(&courseModels.Payment{}).
		Where("student_id = ? AND course_id = ? AND status = ?", studentID, courseID, courseModels.PaymentSuccess).
		Count(&count)
	return count > 0
}

// IsEnrolledInCourse reports whether the student is enrolled in any offering
// of the course.
func IsEnrolledInCourse(db *gorm.DB, studentID, courseID uint) bool {
	var count int64
	db.Model(&courseModels.Enrollment{}).
		Joins("JOIN course_offerings ON course_offerings.id = enrollments.course_offering_id").
		Where("enrollments.student_id = ? AND course_offerings.course_id = ?", studentID, courseID).
		Count(&count)
	return count > 0
}

// HasCourseAccess is the single authority consulted before serving content or
// quizzes: payment OR enrollment grants access.
func HasCourseAccess(db *gorm.DB, studentID, courseID uint) bool {
	return HasPaidForCourse(db, studentID, courseID) || IsEnrolledInCourse(db, studentID, courseID)
}

// isUniqueViolation recognises a storage-level uniqueness failure from either
// supported dialect.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// EnrollInOffering decides and records access for a student picking a
// specific offering. Free courses and already-paid courses enroll directly;
// unpaid paid courses are pointed at the payment flow. The (student,
// offering) unique index is the last word under concurrent requests: a racing
// duplicate loses at Create and is reported as already enrolled.
func EnrollInOffering(c *fiber.Ctx) error {
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

	// Informational conflict, not an error state
	var existing courseModels.Enrollment
	if err := db.Where("student_id = ? AND course_offering_id = ?", user.ID, offering.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course offering.", nil)
	}

	hasPaid := HasPaidForCourse(db, user.ID, crs.ID)

	if crs.EffectivePrice() > 0 && !hasPaid {
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "Payment required for this course.", fiber.Map{
			"course_id": crs.ID,
			"amount":    crs.EffectivePrice(),
		})
	}

	enrollment := courseModels.Enrollment{
		StudentID:        user.ID,
		CourseOfferingID: offering.ID,
		EnrolledAt:       time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if hasPaid {
			// Attach the course-level payment to this offering, first writer
			// wins. A payment already claimed by another offering stays
			// there; the enrollment then simply carries no payment link.
			var payment courseModels.Payment
			if err := tx.Where("student_id = ? AND course_id = ? AND status = ? AND course_offering_id IS NULL",
				user.ID, crs.ID, courseModels.PaymentSuccess).
				Order("created_at asc").First(&payment).Error; err == nil {
				claimed := tx.Model(&courseModels.Payment{}).
					Where("id = ? AND course_offering_id IS NULL", payment.ID).
					Update("course_offering_id", offering.ID)
				if claimed.Error != nil {
					return claimed.Error
				}
				if claimed.RowsAffected == 1 {
					enrollment.PaymentID = &payment.ID
				}
			}
		}

		return tx.Create(&enrollment).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course offering.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	var teacher models.User
	db.Where("id = ?", offering.TeacherID).First(&teacher)
	utils.SendEnrollmentEmail(user.Email, user.Username, crs.Title, teacher.Username)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully enrolled in "+crs.Title+"!", enrollment)
}

// EnrollmentWithCourse is the student-facing enrollment view
type EnrollmentWithCourse struct {
	courseModels.Enrollment
	CourseID         uint   `json:"course_id"`
	CourseTitle      string `json:"course_title"`
	CoursePhoto      string `json:"course_photo"`
	TeacherName      string `json:"teacher_name"`
	Semester         string `json:"semester"`
	Year             int    `json:"year"`
	MeetLink         string `json:"meet_link"`
	ClassDescription string `json:"class_description"`
}

// GetMyEnrollments lists the acting student's enrollments with course and
// offering details.
func GetMyEnrollments(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("student_id = ?", user.ID).Order("enrolled_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		result[i] = EnrollmentWithCourse{Enrollment: e}

		var offering courseModels.CourseOffering
		if err := db.Where("id = ?", e.CourseOfferingID).First(&offering).Error; err != nil {
			continue
		}
		result[i].Semester = offering.Semester
		result[i].Year = offering.Year
		result[i].MeetLink = offering.MeetLink
		result[i].ClassDescription = offering.ClassDescription

		var crs courseModels.Course
		if err := db.Where("id = ?", offering.CourseID).First(&crs).Error; err == nil {
			result[i].CourseID = crs.ID
			result[i].CourseTitle = crs.Title
			result[i].CoursePhoto = crs.PhotoURL
		}

		var teacher models.User
		if err := db.Where("id = ?", offering.TeacherID).First(&teacher).Error; err == nil {
			result[i].TeacherName = teacher.Username
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}
