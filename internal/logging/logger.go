package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

// LogBuild assembles a zerolog.Logger from a writer, a file path or both
// defaults (stdout, info level, console output).
type LogBuild struct {
	writer io.Writer
	path   string
	level  zerolog.Level
	json   bool
}

// LogData is the result of Make. LogFile is set when FromPath was used and
// must be closed by the caller.
type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// Level accepts zerolog level names; unknown names keep the current level.
func (build *LogBuild) Level(name string) *LogBuild {
	if lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name))); err == nil && name != "" {
		build.level = lvl
	}
	return build
}

// JSON switches from the human console format to one JSON object per line.
func (build *LogBuild) JSON(enabled bool) *LogBuild {
	build.json = enabled
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	var writer io.Writer = os.Stdout
	if build.writer != nil {
		writer = build.writer
	}
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.SyncWriter(logData.LogFile)
	}
	if !build.json {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339, NoColor: build.path != ""}
	}
	logData.Logger = zerolog.New(writer).Level(build.level).With().Timestamp().Logger()
	return logData, nil
}

// Writer adapts a zerolog.Logger to io.Writer for libraries that log through
// the standard log package, such as gorm's logger.
type Writer struct {
	Logger zerolog.Logger
	Level  zerolog.Level
}

func (w Writer) Write(p []byte) (int, error) {
	w.Logger.WithLevel(w.Level).Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
