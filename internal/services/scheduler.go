package services

import (
	"time"

	"synapse-go/internal/models"
	"synapse-go/internal/repository"

	"go.uber.org/zap"
)

type Scheduler struct {
	log          *zap.Logger
	emailService *EmailService
}

func NewScheduler(log *zap.Logger, emailService *EmailService) *Scheduler {
	return &Scheduler{
		log:          log,
		emailService: emailService,
	}
}

// Start runs the scheduler in a goroutine.
func (s *Scheduler) Start() {
	s.log.Info("Starting mood reminder scheduler...")
	go func() {
		// Ticker will fire on every minute.
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			<-ticker.C
			s.runReminderCheck()
		}
	}()
}

func (s *Scheduler) runReminderCheck() {
	// Reminder times are stored as UTC HH:MM.
	currentTime := time.Now().UTC().Format("15:04")
	s.log.Debug("Running mood reminder check", zap.String("utc_time", currentTime))

	users, err := repository.GetUsersForMoodReminder(currentTime)
	if err != nil {
		s.log.Error("Failed to get users for mood reminder", zap.Error(err))
		return
	}

	for _, user := range users {
		logged, err := repository.HasMoodEntryToday(user.ID)
		if err != nil {
			s.log.Error("Failed to check mood entry status", zap.Uint("userID", user.ID), zap.Error(err))
			continue
		}

		if !logged {
			go s.sendReminder(user)
		}
	}
}

func (s *Scheduler) sendReminder(user models.User) {
	s.emailService.SendReminderEmail(user)
}
