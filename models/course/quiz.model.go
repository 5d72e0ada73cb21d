package course

import (
	"time"

	"gorm.io/gorm"
)

// Quiz belongs to an offering. PassPercentage is the non-strict threshold a
// score must reach for the attempt to pass.
type Quiz struct {
	gorm.Model
	CourseOfferingID uint    `json:"course_offering_id" gorm:"index;not null"`
	Title            string  `json:"title"`
	PassPercentage   float64 `json:"pass_percentage" gorm:"default:50"`
	IsDeleted        bool    `gorm:"default:false"`
}

type Question struct {
	gorm.Model
	QuizID    uint   `json:"quiz_id" gorm:"index;not null"`
	Text      string `json:"text" gorm:"type:text"`
	IsDeleted bool   `gorm:"default:false"`
}

// Choice is one answer option. Single-choice questions carry exactly one
// correct choice; that is kept by the creation flow, not by storage.
type Choice struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	IsDeleted  bool   `gorm:"default:false"`
}

// StudentQuizAttempt records one submission. Every submission is preserved;
// the most recent by SubmittedAt is the current result.
type StudentQuizAttempt struct {
	gorm.Model
	StudentID   uint      `json:"student_id" gorm:"index;not null"`
	QuizID      uint      `json:"quiz_id" gorm:"index;not null"`
	Score       float64   `json:"score"` // 0-100
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}
