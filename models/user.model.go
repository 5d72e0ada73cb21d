package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values. Role is assigned at signup and never changes afterwards.
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	Username        string    `gorm:"unique;not null" json:"username"`
	Email           string    `gorm:"unique;not null" json:"email"`
	Role            string    `gorm:"default:'STUDENT'" json:"role"` // STUDENT, TEACHER, ADMIN
	Password        string    `gorm:"not null" json:"-"`
	IsEmailVerified bool      `gorm:"default:false" json:"is_email_verified"`
	LastLogin       time.Time `gorm:"default:NULL" json:"last_login"`
	IsDeleted       bool      `gorm:"default:false" json:"-"`
}

// IsValidRole reports whether role is one of the closed role constants.
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}
