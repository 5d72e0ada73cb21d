package courseValidator

import (
	"fmt"
	"strings"

	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateQuiz validates a quiz creation payload. Every question must carry
// exactly one correct choice; grading depends on it.
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		offeringID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Offering ID!", nil)
		}

		reqData := new(struct {
			Title          string  `json:"title"`
			PassPercentage float64 `json:"pass_percentage"`
			Questions      []struct {
				Text    string `json:"text"`
				Choices []struct {
					Text      string `json:"text"`
					IsCorrect bool   `json:"is_correct"`
				} `json:"choices"`
			} `json:"questions"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}

		if reqData.PassPercentage == 0 {
			reqData.PassPercentage = 50
		}
		if reqData.PassPercentage < 0 || reqData.PassPercentage > 100 {
			errors["pass_percentage"] = "Pass percentage must be between 0 and 100!"
		}

		if len(reqData.Questions) == 0 {
			errors["questions"] = "A quiz must have at least one question!"
		}

		for i, q := range reqData.Questions {
			key := fmt.Sprintf("questions[%d]", i)
			if strings.TrimSpace(q.Text) == "" {
				errors[key] = "Question text is required!"
				continue
			}
			if len(q.Choices) < 2 {
				errors[key] = "A question must have at least two choices!"
				continue
			}
			correct := 0
			for _, ch := range q.Choices {
				if strings.TrimSpace(ch.Text) == "" {
					errors[key] = "Choice text is required!"
				}
				if ch.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				errors[key] = "A question must have exactly one correct choice!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("offeringID", offeringID)
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// QuizID validates requests that carry a quiz id in the URL
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("quizID", quizID)
		return c.Next()
	}
}

// SubmitQuiz validates a quiz submission payload
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		reqData := new(struct {
			Answers map[uint]uint `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Answers == nil {
			reqData.Answers = make(map[uint]uint)
		}

		c.Locals("quizID", quizID)
		c.Locals("validatedQuizSubmission", reqData)
		return c.Next()
	}
}

// AttemptID validates requests that carry an attempt id in the URL
func AttemptID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		attemptID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Attempt ID!", nil)
		}

		c.Locals("attemptID", attemptID)
		return c.Next()
	}
}

// CertificateID validates the public certificate identifier in the URL
func CertificateID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		certificateID := strings.TrimSpace(c.Params("certificate_id"))
		if certificateID == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate ID is required!", nil)
		}

		c.Locals("certificateID", certificateID)
		return c.Next()
	}
}
