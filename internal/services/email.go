package services

import (
	"fmt"

	"synapse-go/internal/models"

	"go.uber.org/zap"
)

// EmailService is a placeholder for a real email sending service.
type EmailService struct {
	log *zap.Logger
}

func NewEmailService(log *zap.Logger) *EmailService {
	return &EmailService{log: log}
}

// SendReminderEmail simulates sending a reminder email.
func (s *EmailService) SendReminderEmail(user models.User) {
	s.log.Info("Sending mood reminder email",
		zap.String("to", user.Email),
		zap.String("name", user.FirstName),
	)
	// In a real application, you would use an SMTP client like go-mail
	// to send a templated HTML email here.
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Time for today's mood check-in\nHi %s,\nThis is a friendly reminder to log today's mood check-in with your child.\n\n", user.Email, user.FirstName)
}
