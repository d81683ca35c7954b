// Package log configures the process-wide logrus logger.
package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

type Fields = logrus.Fields

// Options controls logger construction
type Options struct {
	Level string
	// File enables a rotating log file in addition to stderr
	File string
}

// Init builds the global logger. Only the first call has an effect.
func Init(opts Options) *logrus.Logger {
	once.Do(func() {
		logger = newLogger(opts)
	})
	return logger
}

// L returns the global logger, initializing it with defaults if needed
func L() *logrus.Logger {
	return Init(Options{Level: "info"})
}

func newLogger(opts Options) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&formatter.Formatter{
		NoColors:        false,
		TimestampFormat: "15:04:05.000",
		HideKeys:        false,
		FieldsOrder:     []string{"caller"},
	})

	writers := []io.Writer{os.Stderr}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    20,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	l.SetOutput(io.MultiWriter(writers...))
	return l
}

// entry tags fields with the file and line of the helper's caller
func entry(fields Fields) *logrus.Entry {
	e := L().WithFields(fields)
	if _, file, line, ok := runtime.Caller(2); ok {
		e = e.WithField("caller", fmt.Sprintf("%s:%d", path.Base(file), line))
	}
	return e
}

func Debug(fields Fields, msg string) {
	entry(fields).Debug(msg)
}

func Info(fields Fields, msg string) {
	entry(fields).Info(msg)
}

func Warn(fields Fields, msg string) {
	entry(fields).Warn(msg)
}

func Error(fields Fields, msg string) {
	entry(fields).Error(msg)
}
