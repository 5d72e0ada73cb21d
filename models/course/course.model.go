package course

import "gorm.io/gorm"

// Course is the catalog entry students buy access to. Teaching happens
// through CourseOffering instances, not the course itself.
type Course struct {
	gorm.Model
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PhotoURL    string  `json:"photo_url"`
	TeacherID   *uint   `json:"teacher_id" gorm:"index"` // optional default teacher
	Price       float64 `json:"price" gorm:"default:0"`
	IsFree      bool    `json:"is_free" gorm:"default:false"`
	IsDeleted   bool    `gorm:"default:false"`
}

// EffectivePrice is zero for free courses regardless of the stored price.
func (c *Course) EffectivePrice() float64 {
	if c.IsFree {
		return 0
	}
	return c.Price
}
