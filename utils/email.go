package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendEmail delivers an HTML email over SMTP using credentials from the
// environment.
func SendEmail(to, subject, body string) error {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("EMAIL_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	return d.DialAndSend(m)
}

// SendEmailAsync fires the email off the request path. Delivery failures are
// logged and swallowed; a committed state transition must never fail because
// a notification did.
func SendEmailAsync(to, subject, body string) {
	go func() {
		if err := SendEmail(to, subject, body); err != nil {
			log.Printf("email to %s failed: %v", to, err)
		}
	}()
}
