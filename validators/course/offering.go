package courseValidator

import (
	"strings"
	"time"

	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

var validSemesters = map[string]bool{
	"SPRING": true,
	"SUMMER": true,
	"FALL":   true,
	"WINTER": true,
}

// CreateOffering validates a teacher's course opt-in payload
func CreateOffering() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID         uint   `json:"course_id"`
			Semester         string `json:"semester"`
			Year             int    `json:"year"`
			MeetLink         string `json:"meet_link"`
			ClassDescription string `json:"class_description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Semester = strings.ToUpper(strings.TrimSpace(reqData.Semester))
		reqData.MeetLink = strings.TrimSpace(reqData.MeetLink)
		reqData.ClassDescription = strings.TrimSpace(reqData.ClassDescription)

		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}

		if reqData.Semester == "" {
			errors["semester"] = "Semester is required!"
		} else if !validSemesters[reqData.Semester] {
			errors["semester"] = "Semester must be SPRING, SUMMER, FALL or WINTER!"
		}

		currentYear := time.Now().Year()
		if reqData.Year < currentYear-1 || reqData.Year > currentYear+2 {
			errors["year"] = "Year is out of range!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOffering", reqData)
		return c.Next()
	}
}

// UpdateOffering validates class detail updates
func UpdateOffering() fiber.Handler {
	return func(c *fiber.Ctx) error {
		offeringID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Offering ID!", nil)
		}

		reqData := new(struct {
			MeetLink         string `json:"meet_link"`
			ClassDescription string `json:"class_description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.MeetLink = strings.TrimSpace(reqData.MeetLink)
		reqData.ClassDescription = strings.TrimSpace(reqData.ClassDescription)

		c.Locals("offeringID", offeringID)
		c.Locals("validatedOfferingUpdate", reqData)
		return c.Next()
	}
}

// OfferingID validates requests that only carry an offering id in the URL
func OfferingID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		offeringID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Offering ID!", nil)
		}

		c.Locals("offeringID", offeringID)
		return c.Next()
	}
}

// AssignGrade validates a grade assignment payload
func AssignGrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		offeringID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Offering ID!", nil)
		}

		reqData := new(struct {
			EnrollmentID uint   `json:"enrollment_id"`
			Grade        string `json:"grade"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Grade = strings.TrimSpace(reqData.Grade)

		if reqData.EnrollmentID == 0 {
			errors["enrollment_id"] = "Enrollment ID is required!"
		}

		if reqData.Grade == "" {
			errors["grade"] = "Grade is required!"
		} else if len(reqData.Grade) > 5 {
			errors["grade"] = "Grade must not exceed 5 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("offeringID", offeringID)
		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
