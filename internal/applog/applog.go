package applog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lumo-app/lumo/internal/fileutil"
)

// FileName is the name of the log file in every log directory.
const FileName = "lumo.log"

// Rotation defaults.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 5
	DefaultMaxAgeDays = 30
)

// Config configures a Log. The zero value logs at info level to stderr and
// the file, with default rotation.
type Config struct {
	Level      slog.Level
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	// Console receives a copy of every record. Nil means os.Stderr.
	Console io.Writer
}

// Log is a slog logger writing to the console and a rotating file whose
// location can change at runtime. It is safe for concurrent use.
type Log struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	rotator *lumberjack.Logger
	path    string
}

// InitEarly starts logging into the per-OS fallback log directory. If that
// directory cannot be created the log runs console-only until Reinit.
func InitEarly(cfg Config) *Log {
	dir := earlyLogDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
	l := newLog(cfg)
	if err := l.open(dir); err != nil {
		l.logger.Warn("failed to open early log file, logging to console only", "dir", dir, "error", err)
	}
	return l
}

func newLog(cfg Config) *Log {
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	l := &Log{cfg: cfg}
	handler := slog.NewTextHandler(io.MultiWriter(console, (*fileSink)(l)), &slog.HandlerOptions{
		Level: cfg.Level,
	})
	l.logger = slog.New(handler)
	return l
}

// Logger returns the logger writing through this Log.
func (l *Log) Logger() *slog.Logger {
	return l.logger
}

// Path returns the active log file path, or "" when logging to the console
// only.
func (l *Log) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Reinit moves the log file to <dataDir>/logs/lumo.log. The previous file
// is closed; its contents stay where they were.
func (l *Log) Reinit(dataDir string) error {
	if dataDir == "" {
		return fmt.Errorf("reinit log: data directory must not be empty")
	}
	prev := l.Path()
	if err := l.open(filepath.Dir(PathFor(dataDir))); err != nil {
		return fmt.Errorf("reinit log: %w", err)
	}
	l.logger.Info("logger initialized", "path", l.Path(), "previous", prev)
	return nil
}

// PathFor returns where Reinit puts the log file for dataDir.
func PathFor(dataDir string) string {
	return filepath.Join(dataDir, "logs", FileName)
}

// Close closes the log file. Later records go to the console only.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rotator == nil {
		return nil
	}
	err := l.rotator.Close()
	l.rotator = nil
	l.path = ""
	return err
}

func (l *Log) open(dir string) error {
	path := filepath.Join(dir, FileName)
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return err
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(l.cfg.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: orDefault(l.cfg.MaxBackups, DefaultMaxBackups),
		MaxAge:     orDefault(l.cfg.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   l.cfg.Compress,
		LocalTime:  true,
	}

	l.mu.Lock()
	prev := l.rotator
	l.rotator, l.path = rotator, path
	l.mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return nil
}

// fileSink forwards writes to whichever rotator is current.
type fileSink Log

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rotator == nil {
		return len(p), nil
	}
	return s.rotator.Write(p)
}

// earlyLogDir is the log directory used before the data directory is known:
// %LOCALAPPDATA%\lumo\logs on Windows, ~/Library/Logs/lumo on macOS and
// ~/.config/lumo/logs elsewhere, with ./logs as the last resort.
func earlyLogDir(goos string, getenv func(string) string, homeDir func() (string, error)) string {
	if goos == "windows" {
		if local := getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "lumo", "logs")
		}
	} else if home, err := homeDir(); err == nil && home != "" {
		if goos == "darwin" {
			return filepath.Join(home, "Library", "Logs", "lumo")
		}
		return filepath.Join(home, ".config", "lumo", "logs")
	}
	return filepath.Join(".", "logs")
}

// ParseLevel converts a level name to a slog.Level. Unknown or empty names
// yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
