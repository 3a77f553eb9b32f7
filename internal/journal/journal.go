// Package journal keeps the append-only interaction log, one file per calendar day.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Recorder receives interactions, errors and stage transitions.
type Recorder interface {
	LogInteraction(userID, userMessage, botResponse, stage string)
	LogError(userID, message string, err error)
	LogTransition(userID, fromStage, toStage string)
}

// Journal writes JSON entries to <dir>/interview_chatbot_YYYY-MM-DD.log and mirrors
// a short line to the process logger.
type Journal struct {
	file   *zap.Logger
	logger *zap.Logger
}

func New(dir string, logger *zap.Logger) (*Journal, error) {
	return newJournal(dir, time.Now, logger)
}

func newJournal(dir string, now func() time.Time, logger *zap.Logger) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	sink := &dailyFile{dir: dir, now: now, logger: logger}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), sink, zap.DebugLevel)

	return &Journal{
		file:   zap.New(core, zap.WithClock(clockFunc(now))),
		logger: logger,
	}, nil
}

func (j *Journal) LogInteraction(userID, userMessage, botResponse, stage string) {
	j.file.Info("interaction",
		zap.String("user_id", userID),
		zap.String("stage", stage),
		zap.String("user_message", userMessage),
		zap.String("bot_response", botResponse))

	j.logger.Info("Interaction",
		zap.String("user_id", userID),
		zap.String("stage", stage))
}

func (j *Journal) LogError(userID, message string, err error) {
	j.file.Error(message,
		zap.String("user_id", userID),
		zap.Error(err),
		zap.StackSkip("stacktrace", 1))

	j.logger.Error("Error for user",
		zap.String("user_id", userID),
		zap.String("message", message),
		zap.Error(err))
}

func (j *Journal) LogTransition(userID, fromStage, toStage string) {
	j.file.Info("transition",
		zap.String("user_id", userID),
		zap.String("from_stage", fromStage),
		zap.String("to_stage", toStage))

	j.logger.Info("Stage transition",
		zap.String("user_id", userID),
		zap.String("from_stage", fromStage),
		zap.String("to_stage", toStage))
}

// Nop discards everything.
type Nop struct{}

func (Nop) LogInteraction(string, string, string, string) {}
func (Nop) LogError(string, string, error)                 {}
func (Nop) LogTransition(string, string, string)           {}

// dailyFile opens the current day's file in append mode for every write.
// Write failures go to the process logger and never reach the caller.
type dailyFile struct {
	mu     sync.Mutex
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

func (f *dailyFile) path() string {
	return filepath.Join(f.dir, fmt.Sprintf("interview_chatbot_%s.log", f.now().Format("2006-01-02")))
}

func (f *dailyFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		f.logger.Error("Failed to open journal file", zap.Error(err), zap.String("path", path))
		return len(p), nil
	}
	defer file.Close()

	if _, err := file.Write(p); err != nil {
		f.logger.Error("Failed to write journal entry", zap.Error(err), zap.String("path", path))
		return len(p), nil
	}
	if err := file.Sync(); err != nil {
		f.logger.Error("Failed to sync journal file", zap.Error(err), zap.String("path", path))
	}
	return len(p), nil
}

func (f *dailyFile) Sync() error {
	return nil
}

type clockFunc func() time.Time

func (c clockFunc) Now() time.Time {
	return c()
}

func (c clockFunc) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}
