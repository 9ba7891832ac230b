package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a tagged handle on the shared diagnostic core.
type Logger struct {
	tag string

	mu    sync.Mutex
	sugar *zap.SugaredLogger
	gen   uint64
}

var (
	mu   sync.RWMutex
	base = zap.NewNop()
	// generation is bumped when base is replaced
	generation uint64
	logFile    *os.File
	once       sync.Once
)

// InitLogger builds the shared core. Records are written to view (the debug
// console) when it is set, at debug level in dev mode; when logPath is set a
// JSON log file is created in that directory. Only the first call has any
// effect.
func InitLogger(dev bool, logPath string, view io.Writer) error {
	var initErr error
	once.Do(func() {
		var cores []zapcore.Core

		level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if dev {
			level.SetLevel(zapcore.DebugLevel)
		}

		if view != nil {
			encCfg := zap.NewDevelopmentEncoderConfig()
			encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
			cores = append(cores, zapcore.NewCore(
				zapcore.NewConsoleEncoder(encCfg),
				zapcore.AddSync(view),
				level,
			))
		}

		if logPath != "" {
			timestamp := time.Now().Format("20060102_150405")
			filePath := filepath.Join(logPath, fmt.Sprintf("chiarella_log_%s.log", timestamp))

			file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				initErr = fmt.Errorf("open log file: %w", err)
				return
			}
			logFile = file
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(file),
				level,
			))
		}

		if len(cores) == 0 {
			return
		}

		mu.Lock()
		base = zap.New(zapcore.NewTee(cores...))
		generation++
		mu.Unlock()
	})
	return initErr
}

// NewLogger returns a logger whose records carry tag. It is safe to call
// before InitLogger; such loggers discard everything.
func NewLogger(tag string) *Logger {
	return &Logger{tag: tag}
}

func (l *Logger) logger() *zap.SugaredLogger {
	mu.RLock()
	b, gen := base, generation
	mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sugar == nil || l.gen != gen {
		l.sugar = b.Named(l.tag).Sugar()
		l.gen = gen
	}
	return l.sugar
}

func (l *Logger) Debug(v ...interface{}) {
	l.logger().Debug(v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.logger().Info(v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.logger().Warn(v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.logger().Error(v...)
}

// Infow and Errorw take alternating key/value pairs.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.logger().Infow(msg, keysAndValues...)
}

func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.logger().Errorw(msg, keysAndValues...)
}

func (l *Logger) Fatal(v ...interface{}) {
	l.logger().Fatal(v...)
}

// Close flushes the shared core and closes the log file.
func (l *Logger) Close() {
	mu.RLock()
	_ = base.Sync()
	mu.RUnlock()
	if logFile != nil {
		logFile.Close()
	}
}
