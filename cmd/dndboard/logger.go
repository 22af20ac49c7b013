package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/evanschultz/dndboard/internal/config"
)

// logSink is one charm logger that can be muted without being closed.
type logSink struct {
	logger *charmLog.Logger
	muted  bool
}

// runtimeLogger writes runtime events to the console and, in dev mode, to a logfmt file beside the board.
type runtimeLogger struct {
	appName  string
	level    charmLog.Level
	console  *logSink
	file     *logSink
	filePath string
	closer   io.Closer
}

// newRuntimeLogger builds the console sink and, when dev-file logging is on, a file sink.
// Relative dev_file dirs resolve against boardDir, the directory that holds the board database.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, boardDir string, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if now == nil {
		now = time.Now
	}
	if stderr == nil {
		stderr = io.Discard
	}

	l := &runtimeLogger{
		appName: appName,
		level:   level,
		console: &logSink{logger: charmLog.NewWithOptions(stderr, charmLog.Options{
			Level:           level,
			Prefix:          appName,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Formatter:       charmLog.TextFormatter,
		})},
	}
	if !devMode || !cfg.DevFile.Enabled {
		return l, nil
	}

	path := logFilePath(cfg.DevFile.Dir, boardDir, appName, now().UTC())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}
	l.file = &logSink{logger: charmLog.NewWithOptions(f, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})}
	l.filePath = path
	l.closer = f
	return l, nil
}

// storeLogger returns the logger handed to the board store.
// The file sink wins when present, then the console unless it is muted.
func (l *runtimeLogger) storeLogger() *charmLog.Logger {
	if l == nil {
		return charmLog.New(io.Discard)
	}
	switch {
	case l.file != nil:
		return l.file.logger.WithPrefix(l.appName + "/store")
	case !l.console.muted:
		return l.console.logger.WithPrefix(l.appName + "/store")
	default:
		return charmLog.NewWithOptions(io.Discard, charmLog.Options{Level: l.level})
	}
}

// FilePath returns the dev log file path, or "" when file logging is off.
func (l *runtimeLogger) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

// MuteConsole stops or resumes console output. The file sink is unaffected.
func (l *runtimeLogger) MuteConsole(muted bool) {
	if l == nil {
		return
	}
	l.console.muted = muted
}

// Close closes the dev log file, if one is open.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

func (l *runtimeLogger) log(level charmLog.Level, msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range []*logSink{l.console, l.file} {
		if sink == nil || sink.muted {
			continue
		}
		sink.logger.Log(level, msg, keyvals...)
	}
}

func (l *runtimeLogger) Debug(msg string, keyvals ...any) { l.log(charmLog.DebugLevel, msg, keyvals...) }
func (l *runtimeLogger) Info(msg string, keyvals ...any)  { l.log(charmLog.InfoLevel, msg, keyvals...) }
func (l *runtimeLogger) Warn(msg string, keyvals ...any)  { l.log(charmLog.WarnLevel, msg, keyvals...) }
func (l *runtimeLogger) Error(msg string, keyvals ...any) { l.log(charmLog.ErrorLevel, msg, keyvals...) }

// logFilePath names the day's log file: <dir>/<app>-YYYYMMDD.log, with a relative dir placed under boardDir.
func logFilePath(dir, boardDir, appName string, now time.Time) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = config.DefaultDevLogDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(boardDir, dir)
	}
	name := fmt.Sprintf("%s-%s.log", sanitizeLogFileStem(appName), now.Format("20060102"))
	return filepath.Join(filepath.Clean(dir), name)
}

// sanitizeLogFileStem turns an app name or storage key into a safe file-name segment.
func sanitizeLogFileStem(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem := strings.Trim(replacer.Replace(strings.TrimSpace(name)), "-")
	if stem == "" {
		return "dndboard"
	}
	return stem
}
