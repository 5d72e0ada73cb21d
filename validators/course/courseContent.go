package courseValidator

import (
	"strings"

	"learnhub/middleware"
	courseModels "learnhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// AddContent validates a content upload payload. Exactly the URL matching
// the declared content type must be present.
func AddContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		offeringID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Offering ID!", nil)
		}

		reqData := new(struct {
			Title       string `json:"title"`
			ContentType string `json:"content_type"`
			VideoURL    string `json:"video_url"`
			FileURL     string `json:"file_url"`
			LinkURL     string `json:"link_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.ContentType = strings.ToUpper(strings.TrimSpace(reqData.ContentType))

		// Validate Title
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) > 200 {
			errors["title"] = "Title must not exceed 200 characters!"
		}

		// Validate content type and its matching URL
		switch reqData.ContentType {
		case courseModels.ContentVideo:
			if strings.TrimSpace(reqData.VideoURL) == "" {
				errors["video_url"] = "Video URL is required for video content!"
			}
		case courseModels.ContentFile:
			if strings.TrimSpace(reqData.FileURL) == "" {
				errors["file_url"] = "File URL is required for file content!"
			}
		case courseModels.ContentLink:
			if strings.TrimSpace(reqData.LinkURL) == "" {
				errors["link_url"] = "Link URL is required for link content!"
			}
		default:
			errors["content_type"] = "Content type must be VIDEO, FILE or LINK!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("offeringID", offeringID)
		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

// DeleteContent validates the offering and content ids in the URL
func DeleteContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		offeringID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Offering ID!", nil)
		}

		contentID, ok := parseIDParam(c, "content_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Content ID!", nil)
		}

		c.Locals("offeringID", offeringID)
		c.Locals("contentID", contentID)
		return c.Next()
	}
}
