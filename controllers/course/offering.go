package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateOffering is the teacher opt-in: it creates this teacher's section of
// a course for a term. The composite unique index backs up the pre-check, so
// a racing duplicate create still cannot produce two rows.
func CreateOffering(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedOffering").(*struct {
		CourseID         uint   `json:"course_id"`
		Semester         string `json:"semester"`
		Year             int    `json:"year"`
		MeetLink         string `json:"meet_link"`
		ClassDescription string `json:"class_description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing courseModels.CourseOffering
	if err := db.Where("course_id = ? AND teacher_id = ? AND semester = ? AND year = ? AND is_deleted = ?",
		reqData.CourseID, user.ID, reqData.Semester, reqData.Year, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already offer this course for this term.", nil)
	}

	offering := courseModels.CourseOffering{
		CourseID:         reqData.CourseID,
		TeacherID:        user.ID,
		Semester:         reqData.Semester,
		Year:             reqData.Year,
		MeetLink:         reqData.MeetLink,
		ClassDescription: reqData.ClassDescription,
	}

	if err := db.Create(&offering).Error; err != nil {
		if isUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already offer this course for this term.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create offering!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "You are now teaching "+crs.Title+"!", offering)
}

// loadOwnedOffering re-derives ownership from the stored teacher id. Every
// offering-scoped mutation goes through here; a client-supplied id alone is
// never trusted. On failure the response is already written and the offering
// comes back nil.
func loadOwnedOffering(c *fiber.Ctx, teacherID uint, offeringID int) (*courseModels.CourseOffering, error) {
	var offering courseModels.CourseOffering
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", offeringID, false).First(&offering).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course offering not found!", nil)
	}
	if offering.TeacherID != teacherID {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own offerings!", nil)
	}
	return &offering, nil
}

// UpdateOffering lets a teacher update details of their own section
func UpdateOffering(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	offeringID := c.Locals("offeringID").(int)

	offering, err := loadOwnedOffering(c, user.ID, offeringID)
	if offering == nil {
		return err
	}

	reqData, ok := c.Locals("validatedOfferingUpdate").(*struct {
		MeetLink         string `json:"meet_link"`
		ClassDescription string `json:"class_description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.MeetLink != "" {
		offering.MeetLink = reqData.MeetLink
	}
	if reqData.ClassDescription != "" {
		offering.ClassDescription = reqData.ClassDescription
	}

	if err := database.Database.Db.Save(offering).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update offering!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Class details updated!", offering)
}

// GetMyOfferings lists the acting teacher's sections
func GetMyOfferings(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var offerings []courseModels.CourseOffering
	if err := db.Where("teacher_id = ? AND is_deleted = ?", user.ID, false).Order("created_at desc").Find(&offerings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch offerings!", nil)
	}

	result := make([]OfferingWithTeacher, len(offerings))
	for i, offering := range offerings {
		result[i] = OfferingWithTeacher{CourseOffering: offering, TeacherName: user.Username}
		var crs courseModels.Course
		if err := db.Where("id = ?", offering.CourseID).First(&crs).Error; err == nil {
			result[i].CourseTitle = crs.Title
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offerings fetched successfully!", fiber.Map{
		"offerings": result,
		"total":     len(result),
	})
}

// GetOfferingEnrollments lists students enrolled in one of the teacher's
// sections.
func GetOfferingEnrollments(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	offeringID := c.Locals("offeringID").(int)

	offering, err := loadOwnedOffering(c, user.ID, offeringID)
	if offering == nil {
		return err
	}

	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("course_offering_id = ?", offering.ID).Order("enrolled_at asc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithStudent struct {
		courseModels.Enrollment
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
	}

	result := make([]EnrollmentWithStudent, len(enrollments))
	for i, e := range enrollments {
		result[i] = EnrollmentWithStudent{Enrollment: e}
		var student models.User
		if err := db.Where("id = ?", e.StudentID).First(&student).Error; err == nil {
			result[i].StudentName = student.Username
			result[i].StudentEmail = student.Email
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}

// AssignGrade sets the grade on an enrollment in the teacher's own section.
// Grade assignment is the only mutation an enrollment ever sees.
func AssignGrade(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	offeringID := c.Locals("offeringID").(int)

	offering, err := loadOwnedOffering(c, user.ID, offeringID)
	if offering == nil {
		return err
	}

	reqData, ok := c.Locals("validatedGrade").(*struct {
		EnrollmentID uint   `json:"enrollment_id"`
		Grade        string `json:"grade"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ? AND course_offering_id = ?", reqData.EnrollmentID, offering.ID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found in this offering!", nil)
	}

	enrollment.Grade = &reqData.Grade
	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign grade!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Grade assigned successfully!", enrollment)
}
