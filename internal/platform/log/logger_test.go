package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("")
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
}

func TestNewLoggerParsesLevel(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger(" DEBUG ")
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := NewLogger("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("info")
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	WithFields(logger, logrus.Fields{"job_id": 7}).Info("job created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}

	if entry["msg"] != "job created" {
		t.Fatalf("expected msg field, got %v", entry["msg"])
	}

	if entry["job_id"] != float64(7) {
		t.Fatalf("expected job_id field 7, got %v", entry["job_id"])
	}
}

func TestInitSentryWithoutDSNIsNoop(t *testing.T) {
	t.Parallel()

	hub, flush, err := InitSentry(Discard(), SentrySettings{})
	if err != nil {
		t.Fatalf("InitSentry returned error: %v", err)
	}
	if hub != nil {
		t.Fatalf("expected nil hub without DSN")
	}
	flush()
}

func TestGormLoggerWithNilLogger(t *testing.T) {
	t.Parallel()

	if GormLogger(nil) == nil {
		t.Fatalf("expected default gorm logger")
	}
	if GormLogger(Discard()) == nil {
		t.Fatalf("expected logrus-backed gorm logger")
	}
}
