package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Lutefd/nbu-rates/internal/model"
	"github.com/Lutefd/nbu-rates/internal/repository"
	"github.com/google/uuid"
)

var (
	InfoLogger       *log.Logger
	ErrorLogger      *log.Logger
	mu               sync.RWMutex
	logChan          chan model.Log
	logRepo          repository.LogRepository
	logSource        = model.LogSourceAPI
	processed        chan struct{}
	loggerBufferSize = 1000
)

func init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// InitLogger mirrors every entry into repo until Shutdown is called.
func InitLogger(repo repository.LogRepository, source string) {
	mu.Lock()
	defer mu.Unlock()

	logRepo = repo
	logSource = source
	logChan = make(chan model.Log, loggerBufferSize)
	processed = make(chan struct{})
	go processLogs(repo, logChan, processed)
}

func processLogs(repo repository.LogRepository, entries <-chan model.Log, done chan<- struct{}) {
	defer close(done)
	for logEntry := range entries {
		if err := repo.SaveLog(context.Background(), logEntry); err != nil {
			ErrorLogger.Printf("failed to save log: %v", err)
		}
	}
}

func logAsync(level model.LogLevel, message string) {
	if level == model.LogLevelInfo {
		InfoLogger.Output(3, message)
	} else {
		ErrorLogger.Output(3, message)
	}

	mu.RLock()
	defer mu.RUnlock()
	if logChan == nil {
		return
	}

	logEntry := model.Log{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Source:    logSource,
	}

	select {
	case logChan <- logEntry:
	default:
		ErrorLogger.Printf("log channel full. Dropping log: %v", logEntry)
	}
}

func Info(v ...interface{}) {
	logAsync(model.LogLevelInfo, fmt.Sprint(v...))
}

func Infof(format string, v ...interface{}) {
	logAsync(model.LogLevelInfo, fmt.Sprintf(format, v...))
}

func Error(v ...interface{}) {
	logAsync(model.LogLevelError, fmt.Sprint(v...))
}

func Errorf(format string, v ...interface{}) {
	logAsync(model.LogLevelError, fmt.Sprintf(format, v...))
}

// Shutdown drains queued entries and closes the repository. It is a no-op
// when no repository was attached.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	entries, repo, done := logChan, logRepo, processed
	logChan, logRepo, processed = nil, nil, nil
	mu.Unlock()

	if entries == nil {
		return nil
	}
	close(entries)

	select {
	case <-done:
		return repo.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}
