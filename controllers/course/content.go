package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// AddContent attaches a material (video, file or external link) to one of the
// teacher's own offerings.
func AddContent(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	offeringID := c.Locals("offeringID").(int)

	offering, err := loadOwnedOffering(c, user.ID, offeringID)
	if offering == nil {
		return err
	}

	reqData, ok := c.Locals("validatedContent").(*struct {
		Title       string `json:"title"`
		ContentType string `json:"content_type"`
		VideoURL    string `json:"video_url"`
		FileURL     string `json:"file_url"`
		LinkURL     string `json:"link_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	content := courseModels.CourseContent{
		CourseOfferingID: offering.ID,
		Title:            reqData.Title,
		ContentType:      reqData.ContentType,
		VideoURL:         reqData.VideoURL,
		FileURL:          reqData.FileURL,
		LinkURL:          reqData.LinkURL,
	}

	if err := database.Database.Db.Create(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content added successfully!", content)
}

// DeleteContent soft-deletes a material from one of the teacher's offerings.
func DeleteContent(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	offeringID := c.Locals("offeringID").(int)
	contentID := c.Locals("contentID").(int)

	offering, err := loadOwnedOffering(c, user.ID, offeringID)
	if offering == nil {
		return err
	}

	db := database.Database.Db

	var content courseModels.CourseContent
	if err := db.Where("id = ? AND course_offering_id = ? AND is_deleted = ?", contentID, offering.ID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	content.IsDeleted = true
	if err := db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully!", nil)
}

// GetOfferingContent returns the materials of an offering to a student.
// Access requires having paid for the course or being enrolled in it; the
// offering's own teacher also sees the list.
func GetOfferingContent(c *fiber.Ctx) error {
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

	if offering.TeacherID != user.ID && !HasCourseAccess(db, user.ID, offering.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this course content!", nil)
	}

	var contents []courseModels.CourseContent
	if err := db.Where("course_offering_id = ? AND is_deleted = ?", offering.ID, false).Order("created_at asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully!", fiber.Map{
		"contents": contents,
		"total":    len(contents),
	})
}
