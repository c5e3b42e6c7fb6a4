// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger from configuration. Entries go to
// console and to a size-rotated log file. The returned Closer releases the file.
func New(cfg *config.AppConfig, console io.Writer) (*logrus.Logger, io.Closer) {
	log := logrus.New()

	fileWriter := newFileWriter(cfg)
	log.SetOutput(io.MultiWriter(console, fileWriter))

	// Set Log Level
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(level)
	}

	log.SetFormatter(formatterFor(cfg.Environment))

	log.Debugf("Log level set to: %s", log.GetLevel().String())
	log.Debugf("Log format set for environment: %s, file: %s", cfg.Environment, fileWriter.Filename)
	return log, fileWriter
}

// NewBootstrap returns a console-only logger for use before configuration is loaded.
func NewBootstrap() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(formatterFor(""))
	return log
}

func newFileWriter(cfg *config.AppConfig) *lumberjack.Logger {
	if dir := filepath.Dir(cfg.LogFile); dir != "." {
		// lumberjack creates the directory too; an error here surfaces on first write
		_ = os.MkdirAll(dir, 0755)
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		LocalTime:  true,
	}
}

func formatterFor(environment string) logrus.Formatter {
	env := strings.ToLower(environment)
	if env == "production" || env == "staging" {
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}
