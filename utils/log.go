package utils

/*
A tagged wrapper of the standard library logger with a global level.
Error and Fatal are always printed.
*/

import (
	"fmt"
	"log"
	"os"
	"strings"
)

const (
	LogErrorLevel int = 0
	LogWarnLevel  int = 1
	LogInfoLevel  int = 2
	LogDebugLevel int = 3

	// callers reach Output through a level method and output
	fatalCallDepth = 3
	levelCallDepth = 4
)

var levelNames = []string{"Error", "Warn", "Info", "Debug"}

var (
	stdout   = log.New(os.Stdout, "", log.LstdFlags|log.Lshortfile)
	logLevel = LogDebugLevel
	logger   = NewLogger("utils")
)

func SetLogLevel(level int) {
	logLevel = level
}

func GetLogLevel() int {
	return logLevel
}

// ParseLogLevel accepts the level names in any case
func ParseLogLevel(name string) (int, error) {
	for level, s := range levelNames {
		if strings.EqualFold(s, name) {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown log level:%s", name)
}

type Logger struct {
	*log.Logger
	prefix string
}

func NewLogger(tag string) *Logger {
	prefix := tag
	if len(tag) != 0 {
		prefix = "[" + tag + "]"
	}
	return &Logger{Logger: stdout, prefix: prefix}
}

func (l *Logger) output(depth int, level string, msg string) {
	l.Logger.Output(depth, l.prefix+"["+level+"] "+msg)
}

func (l *Logger) logf(level int, format string, v ...interface{}) {
	if level <= logLevel {
		l.output(levelCallDepth, levelNames[level], fmt.Sprintf(format, v...))
	}
}

func (l *Logger) logln(level int, v ...interface{}) {
	if level <= logLevel {
		l.output(levelCallDepth, levelNames[level], fmt.Sprintln(v...))
	}
}

func (l *Logger) Fatal(format string, v ...interface{}) {
	l.output(fatalCallDepth, "Fatal", fmt.Sprintf(format, v...))
	os.Exit(1)
}

func (l *Logger) Fatalln(v ...interface{}) {
	l.output(fatalCallDepth, "Fatal", fmt.Sprintln(v...))
	os.Exit(1)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(LogErrorLevel, format, v...)
}

func (l *Logger) Errorln(v ...interface{}) {
	l.logln(LogErrorLevel, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.logf(LogWarnLevel, format, v...)
}

func (l *Logger) Warnln(v ...interface{}) {
	l.logln(LogWarnLevel, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(LogInfoLevel, format, v...)
}

func (l *Logger) Infoln(v ...interface{}) {
	l.logln(LogInfoLevel, v...)
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(LogDebugLevel, format, v...)
}

func (l *Logger) Debugln(v ...interface{}) {
	l.logln(LogDebugLevel, v...)
}
