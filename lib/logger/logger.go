package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Settings stores config for logger
type Settings struct {
	Path       string `yaml:"path"`
	Name       string `yaml:"name"`
	Ext        string `yaml:"ext"`
	TimeFormat string `yaml:"time-format"`
}

var logr zerolog.Logger

func init() {
	// 在 Setup 之前也要能用，先只写控制台
	logr = zerolog.New(consoleWriter()).With().Timestamp().Logger()
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006/01/02 15:04:05",
	}
}

// Setup initializes logger, appends to a date stamped file under settings.Path
func Setup(settings *Settings) {
	if err := os.MkdirAll(settings.Path, 0755); err != nil {
		logr.Error().Msg(fmt.Sprint("make log dir failed: ", err))
		return
	}
	fileName := fmt.Sprintf("%s-%s.%s",
		settings.Name,
		time.Now().Format(settings.TimeFormat),
		settings.Ext)
	logFile, err := os.OpenFile(filepath.Join(settings.Path, fileName),
		os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		logr.Error().Msg(fmt.Sprint("open log file failed: ", err))
		return
	}
	multi := zerolog.MultiLevelWriter(consoleWriter(), logFile)
	logr = zerolog.New(multi).With().Timestamp().Logger()
}

// Debug prints debug log
func Debug(v ...interface{}) {
	logr.Debug().Msg(fmt.Sprint(v...))
}

// Info prints normal log
func Info(v ...interface{}) {
	logr.Info().Msg(fmt.Sprint(v...))
}

// Warn prints warning log
func Warn(v ...interface{}) {
	logr.Warn().Msg(fmt.Sprint(v...))
}

// Error prints error log
func Error(v ...interface{}) {
	logr.Error().Msg(fmt.Sprint(v...))
}

// Fatal prints error log then stop the program
func Fatal(v ...interface{}) {
	logr.Fatal().Msg(fmt.Sprint(v...))
}
