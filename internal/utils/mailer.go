package utils

// mailer.go sends transactional emails (verification links, password
// resets, booking notifications) over plain SMTP.  Delivery is always
// best-effort: callers log the returned error and continue, because a
// mail outage must never fail the registration or booking that
// triggered the message.

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendMail delivers a single plain-text email using SMTP settings from
// the environment (SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS,
// SMTP_FROM).  When SMTP_HOST is unset the mail is silently dropped,
// which keeps local development working without a mail server.
func SendMail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@localhost"
	}

	msg := []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%s", host, port)
	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASS"), host)
	}
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}
