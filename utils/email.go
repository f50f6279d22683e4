package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if config.Host == "" || config.Port == "" || config.From == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

// SendReservationConfirmation mails the customer after a successful booking.
// Best-effort: failures are logged, never surfaced to the booking caller.
func SendReservationConfirmation(email, name, businessName, date, startTime string) {
	go func() {
		subject := fmt.Sprintf("Terminbestätigung - %s", businessName)
		body := fmt.Sprintf(`<h2>Ihr Termin ist bestätigt!</h2>
<p>Hallo %s,</p>
<p>Ihr Termin bei <strong>%s</strong> am <strong>%s</strong> um <strong>%s</strong> Uhr wurde bestätigt.</p>
<p>Wir freuen uns auf Sie!</p>`, firstName(name), businessName, date, startTime)
		if err := SendEmail(email, subject, body); err != nil {
			log.Printf("Failed to send reservation confirmation to %s: %v", email, err)
		}
	}()
}

// SendCancellationNotice mails the customer when a reservation is cancelled.
func SendCancellationNotice(email, name, businessName, date, startTime string) {
	go func() {
		subject := fmt.Sprintf("Termin storniert - %s", businessName)
		body := fmt.Sprintf(`<h2>Termin storniert</h2>
<p>Hallo %s,</p>
<p>Ihr Termin bei <strong>%s</strong> am <strong>%s</strong> um <strong>%s</strong> Uhr wurde storniert.</p>
<p>Sie können jederzeit einen neuen Termin buchen.</p>`, firstName(name), businessName, date, startTime)
		if err := SendEmail(email, subject, body); err != nil {
			log.Printf("Failed to send cancellation notice to %s: %v", email, err)
		}
	}()
}

func firstName(name string) string {
	if name == "" {
		return "Gast"
	}
	return strings.Split(name, " ")[0]
}
