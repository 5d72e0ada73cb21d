package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	courseModels "learnhub/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

func randomHex(n int) string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:n]
}

// GenerateTransactionID returns a fresh ledger transaction id, TXN<12 hex>
// for generic methods and PAYPAL<10 hex> for paypal, collision-checked
// against the payments table.
func GenerateTransactionID(db *gorm.DB, method string) string {
	for {
		var txnID string
		if method == "paypal" {
			txnID = "PAYPAL" + randomHex(10)
		} else {
			txnID = "TXN" + randomHex(12)
		}

		var count int64
		db.Model(&courseModels.Payment{}).Where("transaction_id = ?", txnID).Count(&count)
		if count == 0 {
			return txnID
		}
	}
}

// GenerateCertificateID returns the opaque public token for a certificate.
func GenerateCertificateID() string {
	return "CERT-" + randomHex(16)
}
