package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseOffering is one teacher's section of a course for a term. A teacher
// offers a given course at most once per term, enforced by the composite
// unique index.
type CourseOffering struct {
	gorm.Model
	CourseID         uint       `json:"course_id" gorm:"uniqueIndex:idx_course_teacher_term;not null"`
	TeacherID        uint       `json:"teacher_id" gorm:"uniqueIndex:idx_course_teacher_term;not null"`
	Semester         string     `json:"semester" gorm:"uniqueIndex:idx_course_teacher_term;size:20"`
	Year             int        `json:"year" gorm:"uniqueIndex:idx_course_teacher_term"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	MeetLink         string     `json:"meet_link"`
	ClassDescription string     `json:"class_description"`
	IsDeleted        bool       `gorm:"default:false"`
}
