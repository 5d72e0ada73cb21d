package course

import (
	"time"

	"gorm.io/gorm"
)

// Payment status values. A payment is immutable once terminal.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Payment is the durable ledger record of money movement for a course.
// Exactly one of CourseID/CourseOfferingID is set at creation for course-level
// purchases; CourseOfferingID is back-filled once the student picks a teacher.
// GatewayPaymentID is the PayPal correlation id and is unique so a replayed
// reconciliation callback cannot create a second row.
type Payment struct {
	gorm.Model
	StudentID        uint    `json:"student_id" gorm:"index;not null"`
	CourseID         *uint   `json:"course_id" gorm:"index"`
	CourseOfferingID *uint   `json:"course_offering_id" gorm:"index"`
	Amount           float64 `json:"amount" gorm:"not null"`
	PaymentMethod    string  `json:"payment_method" gorm:"default:'paypal'"`
	Status           string  `json:"status" gorm:"default:'pending'"` // pending, success, failed
	TransactionID    string  `json:"transaction_id" gorm:"uniqueIndex;not null"`
	GatewayPaymentID *string `json:"gateway_payment_id" gorm:"uniqueIndex"`
	PayerID          string  `json:"payer_id"`
}

// PendingPaymentTTL bounds how long an unreconciled gateway handoff is kept.
const PendingPaymentTTL = time.Hour

// PendingPayment is the transient record between the gateway handoff and the
// durable Payment row. It is keyed by the gateway payment id, carries the
// amount and target fixed at initiation (never trusted from redirect
// parameters), and is reaped after PendingPaymentTTL.
type PendingPayment struct {
	gorm.Model
	GatewayPaymentID string    `json:"gateway_payment_id" gorm:"uniqueIndex;not null"`
	StudentID        uint      `json:"student_id" gorm:"index;not null"`
	CourseID         *uint     `json:"course_id"`
	CourseOfferingID *uint     `json:"course_offering_id"`
	Amount           float64   `json:"amount" gorm:"not null"`
	ExpiresAt        time.Time `json:"expires_at" gorm:"index;not null"`
}
