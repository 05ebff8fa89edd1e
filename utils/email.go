package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

func sendMail(to, subject, body string) {
	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_SENDER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		465,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return
	}

	log.Printf("Email sent to %s", to)
}

// SendOTPEmail sends a password-reset OTP to the user's email address
func SendOTPEmail(email string, otp string) {
	sendMail(email, "Your OTP Code", "Your OTP code is: "+otp)
}

// SendStatusEmail tells a user about an account status change made by an admin.
func SendStatusEmail(email, status, reason string) {
	body := fmt.Sprintf("Your JengaEstate account status is now %s.", status)
	if reason != "" {
		body += " Reason: " + reason
	}
	sendMail(email, "Account Status Updated", body)
}
