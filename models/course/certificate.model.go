package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is the terminal artifact issued on the first passing attempt.
// At most one per (student, offering); the unique index makes re-issuance a
// no-op even under concurrent grading. CertificateID is the opaque public
// token handed to the rendering collaborator, never the row id.
type Certificate struct {
	gorm.Model
	StudentID        uint      `json:"student_id" gorm:"uniqueIndex:idx_student_offering_cert;not null"`
	CourseOfferingID uint      `json:"course_offering_id" gorm:"uniqueIndex:idx_student_offering_cert;not null"`
	CertificateID    string    `json:"certificate_id" gorm:"uniqueIndex;not null"`
	IssuedAt         time.Time `json:"issued_at"`
}
