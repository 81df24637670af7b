package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"synapse-go/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init initializes and returns a new zap logger. The logging section of the
// configuration may be nil during early boot, in which case sane defaults
// are used until config.Init has run.
func Init(projectRoot string) (*zap.Logger, error) {
	// Base encoder configuration for file logs (JSON format)
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cfg := config.LoggingConfig{
		Directory:  "logs",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
	if config.Conf != nil {
		cfg = config.Conf.Logging
	}

	logDir := filepath.Join(projectRoot, cfg.Directory)

	// Create a core for each level, which writes ONLY that level to a file.
	levels := []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
	}
	cores := make([]zapcore.Core, 0, len(levels)+1)
	for _, level := range levels {
		core, err := newFileCore(logDir, level, cfg, encoderConfig)
		if err != nil {
			return nil, err
		}
		cores = append(cores, core)
	}

	// A separate core writes to the console with a more readable format.
	cores = append(cores, newConsoleCore())

	// Combine all cores. A log entry is offered to all of them, and each
	// decides whether to write it based on its LevelEnabler.
	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger, nil
}

// newFileCore creates a core that writes a specific log level to a rotating file.
func newFileCore(logDir string, level zapcore.Level, cfg config.LoggingConfig, encoderConfig zapcore.EncoderConfig) (zapcore.Core, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	// One log file per level, named like '2025-07-30-info.log'
	fileName := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), level.String()))

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})

	// This LevelEnablerFunc is the key to splitting logs. It ensures
	// that this core only handles logs of the exact specified level.
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l == level
	})

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writer,
		levelEnabler,
	), nil
}

// newConsoleCore creates a core that writes to the console.
func newConsoleCore() zapcore.Core {
	// Log everything from Debug and above to the console.
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.DebugLevel
	})

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.AddSync(os.Stdout),
		levelEnabler,
	)
}
