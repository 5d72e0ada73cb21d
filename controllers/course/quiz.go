package controllers

import (
	"time"

	"learnhub/database"
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateQuiz creates a quiz with its questions and choices for one of the
// teacher's own offerings. The whole tree is written in one transaction.
func CreateQuiz(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	offeringID := c.Locals("offeringID").(int)

	offering, err := loadOwnedOffering(c, user.ID, offeringID)
	if offering == nil {
		return err
	}

	reqData, ok := c.Locals("validatedQuiz").(*struct {
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
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz := courseModels.Quiz{
		CourseOfferingID: offering.ID,
		Title:            reqData.Title,
		PassPercentage:   reqData.PassPercentage,
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for _, q := range reqData.Questions {
			question := courseModels.Question{QuizID: quiz.ID, Text: q.Text}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for _, ch := range q.Choices {
				choice := courseModels.Choice{
					QuestionID: question.ID,
					Text:       ch.Text,
					IsCorrect:  ch.IsCorrect,
				}
				if err := tx.Create(&choice).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", fiber.Map{
		"quiz_id":         quiz.ID,
		"title":           quiz.Title,
		"pass_percentage": quiz.PassPercentage,
		"questions":       len(reqData.Questions),
	})
}

// QuizChoiceView is a choice as shown to a student, with the answer key
// stripped.
type QuizChoiceView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuizQuestionView struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Choices []QuizChoiceView `json:"choices"`
}

func loadQuizForAccess(c *fiber.Ctx, userID uint, quizID int) (*courseModels.Quiz, *courseModels.CourseOffering, error) {
	db := database.Database.Db

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var offering courseModels.CourseOffering
	if err := db.Where("id = ?", quiz.CourseOfferingID).First(&offering).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course offering not found!", nil)
	}

	if offering.TeacherID != userID && !HasCourseAccess(db, userID, offering.CourseID) {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this quiz!", nil)
	}

	return &quiz, &offering, nil
}

// GetQuiz returns a quiz's questions and choices without revealing which
// choice is correct.
func GetQuiz(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	quiz, _, err := loadQuizForAccess(c, user.ID, quizID)
	if quiz == nil {
		return err
	}

	db := database.Database.Db

	var questions []courseModels.Question
	if err := db.Where("quiz_id = ?", quiz.ID).Order("id asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	result := make([]QuizQuestionView, len(questions))
	for i, q := range questions {
		var choices []courseModels.Choice
		db.Where("question_id = ?", q.ID).Order("id asc").Find(&choices)

		views := make([]QuizChoiceView, len(choices))
		for j, ch := range choices {
			views[j] = QuizChoiceView{ID: ch.ID, Text: ch.Text}
		}
		result[i] = QuizQuestionView{ID: q.ID, Text: q.Text, Choices: views}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz_id":         quiz.ID,
		"title":           quiz.Title,
		"pass_percentage": quiz.PassPercentage,
		"questions":       result,
	})
}

// SubmitQuiz grades a student's answers against the stored answer key.
// Score is the percentage of the quiz's questions answered correctly, so
// unanswered questions count as wrong. Every submission is recorded; a
// passing one also issues the course certificate, once per student and
// offering no matter how many times they pass.
func SubmitQuiz(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	quiz, offering, err := loadQuizForAccess(c, user.ID, quizID)
	if quiz == nil {
		return err
	}

	if offering.TeacherID == user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teachers cannot submit their own quizzes!", nil)
	}

	reqData, ok := c.Locals("validatedQuizSubmission").(*struct {
		Answers map[uint]uint `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var questions []courseModels.Question
	if err := db.Where("quiz_id = ?", quiz.ID).Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz questions!", nil)
	}

	correct := 0
	for _, q := range questions {
		choiceID, answered := reqData.Answers[q.ID]
		if !answered {
			continue
		}
		var choice courseModels.Choice
		if err := db.Where("id = ? AND question_id = ?", choiceID, q.ID).First(&choice).Error; err != nil {
			continue
		}
		if choice.IsCorrect {
			correct++
		}
	}

	score := 0.0
	if len(questions) > 0 {
		score = float64(correct) * 100 / float64(len(questions))
	}
	passed := score >= quiz.PassPercentage

	attempt := courseModels.StudentQuizAttempt{
		StudentID:   user.ID,
		QuizID:      quiz.ID,
		Score:       score,
		Passed:      passed,
		SubmittedAt: time.Now(),
	}
	if err := db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record quiz attempt!", nil)
	}

	var cert *courseModels.Certificate
	if passed {
		cert, err = issueCertificate(db, user.ID, offering.ID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
		}

		var crs courseModels.Course
		if dbErr := db.Where("id = ?", offering.CourseID).First(&crs).Error; dbErr == nil {
			utils.SendCertificateEmail(user.Email, user.Username, crs.Title, cert.CertificateID)
		}
	}

	data := fiber.Map{
		"attempt_id": attempt.ID,
		"score":      score,
		"passed":     passed,
	}
	if cert != nil {
		data["certificate_id"] = cert.CertificateID
	}

	message := "Quiz submitted. Better luck next time!"
	if passed {
		message = "Congratulations, you passed!"
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, message, data)
}

// issueCertificate returns the student's certificate for an offering,
// creating it on first pass. The unique index on (student, offering) settles
// concurrent first passes; the loser of that race reloads the winner's row.
func issueCertificate(db *gorm.DB, studentID, offeringID uint) (*courseModels.Certificate, error) {
	var existing courseModels.Certificate
	err := db.Where("student_id = ? AND course_offering_id = ?", studentID, offeringID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cert := courseModels.Certificate{
		StudentID:        studentID,
		CourseOfferingID: offeringID,
		CertificateID:    utils.GenerateCertificateID(),
		IssuedAt:         time.Now(),
	}
	if err := db.Create(&cert).Error; err != nil {
		if isUniqueViolation(err) {
			if reErr := db.Where("student_id = ? AND course_offering_id = ?", studentID, offeringID).First(&existing).Error; reErr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &cert, nil
}

// GetAttemptResult returns one of the student's own quiz attempts.
func GetAttemptResult(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(int)

	var attempt courseModels.StudentQuizAttempt
	if err := database.Database.Db.Where("id = ?", attemptID).First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz attempt not found!", nil)
	}

	if attempt.StudentID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only view your own quiz attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully!", attempt)
}

// GetMyAttempts lists the student's quiz attempts, most recent first.
func GetMyAttempts(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var attempts []courseModels.StudentQuizAttempt
	if err := database.Database.Db.Where("student_id = ?", user.ID).Order("submitted_at desc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts": attempts,
		"total":    len(attempts),
	})
}

// QuizSummary is the teacher's listing view of a quiz
type QuizSummary struct {
	courseModels.Quiz
	QuestionCount int64 `json:"question_count"`
	AttemptCount  int64 `json:"attempt_count"`
}

// GetOfferingQuizzes lists the quizzes of an offering the teacher owns.
func GetOfferingQuizzes(c *fiber.Ctx) error {
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

	var quizzes []courseModels.Quiz
	if err := db.Where("course_offering_id = ? AND is_deleted = ?", offering.ID, false).
		Order("created_at asc").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	result := make([]QuizSummary, len(quizzes))
	for i, quiz := range quizzes {
		result[i] = QuizSummary{Quiz: quiz}
		db.Model(&courseModels.Question{}).Where("quiz_id = ?", quiz.ID).Count(&result[i].QuestionCount)
		db.Model(&courseModels.StudentQuizAttempt{}).Where("quiz_id = ?", quiz.ID).Count(&result[i].AttemptCount)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", fiber.Map{
		"quizzes": result,
		"total":   len(result),
	})
}
