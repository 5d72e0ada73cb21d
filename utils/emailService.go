package utils

import (
	"fmt"
	"log"
	"time"

	"learnhub/config"

	"github.com/go-resty/resty/v2"
)

// SendEmail delivers one transactional email through the Brevo API. Callers
// fire it on a goroutine; a failed send is logged and never surfaced to the
// user action that triggered it.
func SendEmail(to, subject, htmlBody string) error {
	if config.AppConfig.BrevoApiKey == "" {
		log.Printf("Email delivery disabled (no API key); skipping send to %s", to)
		return nil
	}

	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetHeader("api-key", config.AppConfig.BrevoApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"sender": map[string]string{
				"name":  config.AppConfig.BrevoSenderName,
				"email": config.AppConfig.BrevoSenderEmail,
			},
			"to":          []map[string]string{{"email": to}},
			"subject":     subject,
			"htmlContent": htmlBody,
		}).
		Post("https://api.brevo.com/v3/smtp/email")

	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Brevo API error sending to %s: %d %s", to, resp.StatusCode(), resp.String())
		return fmt.Errorf("brevo api error: %d", resp.StatusCode())
	}

	return nil
}

// HTML wrapper shared by all notification emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A3C6E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A3C6E; line-height: 1.6; }
			.content h2 { color: #1A3C6E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; }
			.code { text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNING PLATFORM</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Learning Platform. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendOTPEmail delivers the one-time verification code issued at signup.
func SendOTPEmail(email, username, otp string) {
	subject := "Verify your account - OTP Code"
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Thank you for registering! Please use the following OTP code to verify your account:</p>
		<h1 class="code">%s</h1>
		<p>This code will expire in 10 minutes.</p>
		<p>If you didn't request this, please ignore this email.</p>
	`, username, otp)

	go SendEmail(email, subject, getEmailTemplate("Account Verification", body))
}

// SendWelcomeEmail greets a freshly verified account.
func SendWelcomeEmail(email, username string) {
	subject := "Welcome to the Learning Platform"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account has been verified successfully. You can now browse courses, enroll and start learning.</p>
	`, username)

	go SendEmail(email, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendLoginNotificationEmail alerts the account owner about a new login.
func SendLoginNotificationEmail(email, username, ip, device, timeStr string) {
	subject := "New Login to Your Account - Learning Platform"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We noticed a new login to your account.</p>
		<div class="info-box">
			<ul style="list-style: none; padding: 0; margin: 0;">
				<li style="margin-bottom: 8px;"><strong>Time:</strong> %s</li>
				<li style="margin-bottom: 8px;"><strong>IP Address:</strong> %s</li>
				<li><strong>Device:</strong> %s</li>
			</ul>
		</div>
		<p>If this was you, you can safely ignore this email.</p>
	`, username, timeStr, ip, device)

	go SendEmail(email, subject, getEmailTemplate("New Login Detected", body))
}

// SendEnrollmentEmail confirms a successful enrollment.
func SendEnrollmentEmail(email, username, courseTitle, teacherName string) {
	subject := "Course Enrollment Confirmation"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in:</p>
		<h3 style="text-align: center; color: #4CAF50;">%s</h3>
		<p>Taught by <strong>%s</strong>. You can now access all class content and quizzes from your dashboard.</p>
	`, username, courseTitle, teacherName)

	go SendEmail(email, subject, getEmailTemplate("Enrollment Successful", body))
}

// SendPaymentReceiptEmail confirms a reconciled payment.
func SendPaymentReceiptEmail(email, username, courseTitle, transactionID string, amount float64, currency string) {
	subject := "Payment Confirmation - " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>%s %.2f</strong> for <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Transaction ID:</strong> %s
		</div>
		<p>Keep this id for your records.</p>
	`, username, currency, amount, courseTitle, transactionID)

	go SendEmail(email, subject, getEmailTemplate("Payment Received", body))
}

// SendCertificateEmail announces a newly issued certificate.
func SendCertificateEmail(email, username, courseTitle, certificateID string) {
	subject := "Course Completion Certificate"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on passing the quiz for:</p>
		<h3 style="text-align: center; color: #4CAF50;">%s</h3>
		<div class="info-box">
			<strong>Your Certificate ID:</strong> %s
		</div>
		<p>You can use this id for verification purposes.</p>
	`, username, courseTitle, certificateID)

	go SendEmail(email, subject, getEmailTemplate("Certificate Issued", body))
}
