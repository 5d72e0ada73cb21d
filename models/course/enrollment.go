package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment grants a student access to one offering. The composite unique
// index is the consistency guarantee: concurrent enroll requests for the same
// (student, offering) cannot both insert, whatever the application-level
// checks saw. PaymentID is null for free enrollments.
type Enrollment struct {
	gorm.Model
	StudentID        uint      `json:"student_id" gorm:"uniqueIndex:idx_student_offering;not null"`
	CourseOfferingID uint      `json:"course_offering_id" gorm:"uniqueIndex:idx_student_offering;not null"`
	PaymentID        *uint     `json:"payment_id"`
	EnrolledAt       time.Time `json:"enrolled_at"`
	Grade            *string   `json:"grade" gorm:"size:5"`
}
