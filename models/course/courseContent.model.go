package course

import "gorm.io/gorm"

// Content types for lesson records.
const (
	ContentVideo = "VIDEO"
	ContentFile  = "FILE"
	ContentLink  = "LINK"
)

// CourseContent is a lesson attached to an offering. Serving it is gated by
// the enrollment/payment access check, not by the record itself.
type CourseContent struct {
	gorm.Model
	CourseOfferingID uint   `json:"course_offering_id" gorm:"index;not null"`
	Title            string `json:"title"`
	ContentType      string `json:"content_type" gorm:"default:'VIDEO'"` // VIDEO, FILE, LINK
	VideoURL         string `json:"video_url"`
	FileURL          string `json:"file_url"`
	LinkURL          string `json:"link_url"`
	IsDeleted        bool   `gorm:"default:false"`
}
