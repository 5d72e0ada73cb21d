package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// CourseWithMeta is the catalog listing view
type CourseWithMeta struct {
	courseModels.Course
	TeacherCount int64 `json:"teacher_count"`
	UserHasPaid  bool  `json:"user_has_paid"`
}

// GetAllCourses lists the catalog with per-course payment state for the
// acting user.
func GetAllCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if ok && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if ok && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	query := db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if c.Query("free") == "true" {
		query = query.Where("is_free = ? OR price = 0", true)
	}

	var total int64
	query.Count(&total)

	var courses []courseModels.Course
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result := make([]CourseWithMeta, len(courses))
	for i, crs := range courses {
		var teacherCount int64
		db.Model(&courseModels.CourseOffering{}).
			Where("course_id = ? AND is_deleted = ?", crs.ID, false).
			Distinct("teacher_id").Count(&teacherCount)

		result[i] = CourseWithMeta{
			Course:       crs,
			TeacherCount: teacherCount,
			UserHasPaid:  HasPaidForCourse(db, userID, crs.ID),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// OfferingWithTeacher is the offering view attached to a course detail
type OfferingWithTeacher struct {
	courseModels.CourseOffering
	TeacherName string `json:"teacher_name"`
	CourseTitle string `json:"course_title"`
}

// GetCourseDetails returns one course with its offerings and the acting
// user's access state.
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var offerings []courseModels.CourseOffering
	db.Where("course_id = ? AND is_deleted = ?", crs.ID, false).Find(&offerings)

	result := make([]OfferingWithTeacher, len(offerings))
	for i, offering := range offerings {
		result[i] = OfferingWithTeacher{CourseOffering: offering, CourseTitle: crs.Title}
		var teacher models.User
		if err := db.Where("id = ?", offering.TeacherID).First(&teacher).Error; err == nil {
			result[i].TeacherName = teacher.Username
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":       crs,
		"offerings":    result,
		"user_has_paid": HasPaidForCourse(db, userID, crs.ID),
		"has_access":   HasCourseAccess(db, userID, crs.ID),
	})
}
