package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDir      = "log"
	logFilename = "steamidedit.log"
)

// Logger discards everything until Init is called, so packages can log from
// tests without any setup.
var Logger = zerolog.Nop()

var Writer io.Writer = io.Discard

var logFilePath string
var fileLogger *lumberjack.Logger

// Init points Logger at stderr. The level is a zerolog level name ("debug",
// "warn", ...) or a number where 0 is the quietest.
func Init(logLevel string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}
	Writer = consoleWriter

	Logger = zerolog.New(consoleWriter).
		With().
		Timestamp().
		Logger().
		Level(ParseLevel(logLevel))
}

// ParseLevel never fails; anything it does not understand is info.
func ParseLevel(logLevel string) zerolog.Level {
	logLevel = strings.TrimSpace(strings.ToLower(logLevel))
	if logLevel == "" {
		return zerolog.InfoLevel
	}
	if n, err := strconv.Atoi(logLevel); err == nil {
		// 0 panic .. 6 trace, same order as the word levels read quiet to loud
		switch n {
		case 6:
			return zerolog.TraceLevel
		case 5:
			return zerolog.DebugLevel
		case 4:
			return zerolog.InfoLevel
		case 3:
			return zerolog.WarnLevel
		case 2:
			return zerolog.ErrorLevel
		case 1:
			return zerolog.FatalLevel
		case 0:
			return zerolog.PanicLevel
		default:
			return zerolog.InfoLevel
		}
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// AddFileLogger also sends everything to a rolling log under workdir/log.
func AddFileLogger(workdir string) error {
	logFilePath = filepath.Join(workdir, logDir, logFilename)
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return err
	}
	fileLogger = &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    5,
		MaxAge:     30,
		MaxBackups: 3,
	}

	level := Logger.GetLevel()
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}
	multi := zerolog.MultiLevelWriter(consoleWriter, fileLogger)
	Writer = multi

	Logger = zerolog.New(multi).
		With().
		Timestamp().
		Logger().
		Level(level)

	return nil
}

func GetLogFilePath() string {
	return logFilePath
}

// HasFileLogger reports whether a log file is open.
func HasFileLogger() bool {
	return fileLogger != nil
}

// Close releases the log file, if there is one.
func Close() error {
	if fileLogger == nil {
		return nil
	}
	err := fileLogger.Close()
	fileLogger = nil
	return err
}
