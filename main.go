package main

import (
	"errors"
	"os"
	"time"

	"synapse-go/internal/config"
	"synapse-go/internal/database"
	"synapse-go/internal/games"
	logger "synapse-go/internal/logging"
	"synapse-go/internal/reporting"
	"synapse-go/internal/router"
	"synapse-go/internal/screening"
	"synapse-go/internal/services"

	"go.uber.org/zap"
)

func main() {
	// Bootstrap logger for config loading; the real logger needs the
	// config for its file settings.
	bootLog, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}

	if err := config.Init(".", bootLog); err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Database
	database.Init(log)

	// Screening questionnaire: YAML file if present, built-in otherwise.
	def, err := screening.Load("config/screening.yaml")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("No screening YAML found, using built-in questionnaire")
		} else {
			log.Warn("Failed to load screening YAML, using built-in questionnaire", zap.Error(err))
		}
		def = screening.DefaultDefinition()
	}

	gc := config.Conf.Games
	manager := games.NewManager(games.Config{
		RevealInterval:    time.Duration(gc.RevealIntervalMs) * time.Millisecond,
		FlipBackDelay:     time.Duration(gc.PairsFlipBackMs) * time.Millisecond,
		AttentionDuration: time.Duration(gc.AttentionDurationS) * time.Second,
		SwitchOffset:      time.Duration(gc.AttentionSwitchS) * time.Second,
		TargetColor:       "red",
		TargetShape:       "circle",
		Consistency:       85,
		SessionTTL:        time.Duration(gc.SessionTTLMinutes) * time.Minute,
	}, log, nil)
	defer manager.Close()

	bc := config.Conf.Backend
	reporter := reporting.NewClient(
		bc.BaseURL,
		bc.DegradedBaseURL,
		time.Duration(bc.TimeoutSeconds)*time.Second,
		log,
	)

	r := router.Setup(log, manager, reporter, def)

	scheduler := services.NewScheduler(log, services.NewEmailService(log))
	scheduler.Start()

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
