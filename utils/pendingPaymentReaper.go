package utils

import (
	"log"
	"time"

	"learnhub/database"
	courseModels "learnhub/models/course"

	"github.com/robfig/cron/v3"
)

// InitializePendingPaymentReaper starts the scheduler that purges pending
// payment records whose verification window elapsed without the gateway
// redirect ever coming back.
func InitializePendingPaymentReaper() {
	log.Println("[PAYMENT-REAPER] Initializing pending payment reaper...")

	c := cron.New()

	c.AddFunc("@every 15m", func() {
		ReapExpiredPendingPayments()
	})

	c.Start()
	log.Println("[PAYMENT-REAPER] Pending payment reaper started - runs every 15 minutes")
}

// ReapExpiredPendingPayments removes pending payment records past their
// expiry. Only the transient records are touched; durable payments are never
// deleted.
func ReapExpiredPendingPayments() {
	db := database.Database.Db

	result := db.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&courseModels.PendingPayment{})
	if result.Error != nil {
		log.Printf("[PAYMENT-REAPER] Error purging expired pending payments: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[PAYMENT-REAPER] Purged %d expired pending payments", result.RowsAffected)
	}
}
