package services

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/example/driveschool/internal/models"
)

// EmailService sends transactional mail: verification codes, reset
// codes, booking confirmations. When no SMTP host is configured the
// service logs and returns nil so flows keep working in development.
type EmailService struct {
	host string
	addr string
	from string
}

// NewEmailService creates an EmailService. host may be empty.
func NewEmailService(host, port, from string) *EmailService {
	return &EmailService{
		host: host,
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
	}
}

// Send delivers a plain-text message.
func (s *EmailService) Send(to, subject, body string) error {
	if s.host == "" {
		log.Printf("[Email] SMTP not configured, skipping mail to %s (%s)", to, subject)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, to, subject, body,
	)

	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("[Email] Failed to send to %s: %v", to, err)
		return err
	}
	return nil
}

// SendOTP mails a one-time code for the given purpose.
func (s *EmailService) SendOTP(to, code, purpose string) error {
	subject := "Your verification code"
	if purpose == "password-reset" {
		subject = "Your password reset code"
	}
	body := fmt.Sprintf("Your code is %s. It expires in 15 minutes.", code)
	return s.Send(to, subject, body)
}

// SendBookingConfirmation mails the student a summary of the booked lesson.
func (s *EmailService) SendBookingConfirmation(to string, booking *models.Booking) error {
	body := fmt.Sprintf(
		"Your driving lesson is booked.\n\nDate: %s\nTime: %s - %s\nLocation: %s\n\nStatus: %s",
		booking.Date.Format("Monday, January 2, 2006"),
		booking.StartTime,
		booking.EndTime,
		booking.Location,
		booking.Status,
	)
	return s.Send(to, "Lesson booked", body)
}
