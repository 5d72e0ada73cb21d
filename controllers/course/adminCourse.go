package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateCourse creates a new catalog course
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		PhotoURL    string  `json:"photo_url"`
		Price       float64 `json:"price"`
		IsFree      bool    `json:"is_free"`
		TeacherID   *uint   `json:"teacher_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	crs := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		PhotoURL:    reqData.PhotoURL,
		Price:       reqData.Price,
		IsFree:      reqData.IsFree,
		TeacherID:   reqData.TeacherID,
	}

	if err := database.Database.Db.Create(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", crs)
}

// AdminUpdateCourse updates an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		PhotoURL    string   `json:"photo_url"`
		Price       *float64 `json:"price"`
		IsFree      *bool    `json:"is_free"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields
	if reqData.Title != "" {
		crs.Title = reqData.Title
	}
	if reqData.Description != "" {
		crs.Description = reqData.Description
	}
	if reqData.PhotoURL != "" {
		crs.PhotoURL = reqData.PhotoURL
	}
	if reqData.Price != nil {
		crs.Price = *reqData.Price
	}
	if reqData.IsFree != nil {
		crs.IsFree = *reqData.IsFree
	}

	if err := database.Database.Db.Save(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", crs)
}

// AdminDeleteCourse soft deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	crs.IsDeleted = true
	if err := database.Database.Db.Save(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminGetCourseDetails gets a single course with its offerings and counters
func AdminGetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var offerings []courseModels.CourseOffering
	db.Where("course_id = ? AND is_deleted = ?", courseID, false).Find(&offerings)

	var enrollmentCount int64
	db.Model(&courseModels.Enrollment{}).
		Joins("JOIN course_offerings ON course_offerings.id = enrollments.course_offering_id").
		Where("course_offerings.course_id = ?", courseID).
		Count(&enrollmentCount)

	var paymentTotal float64
	db.Model(&courseModels.Payment{}).
		Where("course_id = ? AND status = ?", courseID, courseModels.PaymentSuccess).
		Select("COALESCE(SUM(amount), 0)").Scan(&paymentTotal)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":           crs,
		"offerings":        offerings,
		"enrollment_count": enrollmentCount,
		"revenue":          paymentTotal,
	})
}
