package utils

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"wavegen/internal/config"
)

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wavegen.log")

	logger, err := NewLogger(&config.LoggingConfig{
		Level:      "info",
		Format:     "json",
		Output:     path,
		MaxSize:    1,
		MaxBackups: 1,
	})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("configuration applied", zap.String("mode", "PULSED"))
	if err := CloseLogger(logger); err != nil {
		t.Fatalf("CloseLogger failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("expected a single JSON entry, got %q: %v", data, err)
	}
	if entry["message"] != "configuration applied" || entry["mode"] != "PULSED" || entry["level"] != "info" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LoggingConfig{Level: "verbose", Output: "stdout"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestDeviceLogger_LogOperation(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewDeviceLogger(zap.New(core), "10.0.0.7:7")

	logger.LogOperation("push config", 3*time.Millisecond, true, nil)
	logger.LogOperation("start", time.Millisecond, false, errors.New("no configuration"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Level != zap.WarnLevel {
		t.Errorf("failed operation logged at %s", entries[1].Level)
	}
	if got := entries[0].ContextMap()["device_address"]; got != "10.0.0.7:7" {
		t.Errorf("address field = %v", got)
	}
}

func TestLogAPIRequest_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewServiceLogger(zap.New(core), "http-api")

	logger.LogAPIRequest("GET", "/ok", "", "127.0.0.1", http.StatusOK, time.Millisecond)
	logger.LogAPIRequest("PUT", "/bad", "", "127.0.0.1", http.StatusUnprocessableEntity, time.Millisecond)
	logger.LogAPIRequest("POST", "/down", "", "127.0.0.1", http.StatusServiceUnavailable, time.Millisecond)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"info", "warn", "error"}
	for k, entry := range entries {
		if entry.Level.String() != want[k] {
			t.Errorf("entry %d level %s, want %s", k, entry.Level, want[k])
		}
	}
}

func TestOperationLogger_Progress(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewOperationLogger(zap.New(core), "scenario", "loop-1")

	logger.Progress(3, 4, zap.String("step", "pulsed const-freq"))
	logger.Progress(0, 0)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["done"] != int64(3) || fields["total"] != int64(4) || fields["progress"] != 0.75 {
		t.Errorf("unexpected progress fields %v", fields)
	}
	if fields["step"] != "pulsed const-freq" || fields["operation_id"] != "loop-1" {
		t.Errorf("unexpected context fields %v", fields)
	}
	if got := entries[1].ContextMap()["progress"]; got != 0.0 {
		t.Errorf("expected zero progress for an empty run, got %v", got)
	}
}

func TestServiceLogger_LogQuery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewServiceLogger(zap.New(core), "capture-repository")

	logger.LogQuery("select capture", time.Millisecond, nil)
	logger.LogQuery("select capture", time.Millisecond, sql.ErrNoRows)
	logger.LogQuery("insert capture", time.Millisecond, errors.New("connection refused"))

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"debug", "debug", "error"}
	for k, entry := range entries {
		if entry.Level.String() != want[k] {
			t.Errorf("entry %d level %s, want %s", k, entry.Level, want[k])
		}
	}
	if entries[2].ContextMap()["query"] != "insert capture" {
		t.Errorf("unexpected fields %v", entries[2].ContextMap())
	}
}

func TestCodedErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	CodedErrorResponse(c, http.StatusUnprocessableEntity, "BAD_CONFIG", "Configuration not applied", errors.New("bad configuration"))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if resp.Success || resp.Error == nil {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Error.Code != "BAD_CONFIG" || resp.Error.Details != "bad configuration" || resp.RequestID != "req-1" {
		t.Errorf("unexpected error %+v request_id=%q", resp.Error, resp.RequestID)
	}
}

func TestErrorResponse_CodeFromStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[int]string{
		http.StatusBadRequest:          "BAD_REQUEST",
		http.StatusNotFound:            "NOT_FOUND",
		http.StatusServiceUnavailable:  "SERVICE_UNAVAILABLE",
		http.StatusUnprocessableEntity: "UNPROCESSABLE_ENTITY",
		http.StatusTeapot:              "UNKNOWN_ERROR",
	}
	for status, code := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		ErrorResponse(c, status, "failed", nil)

		var resp APIResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if resp.Error.Code != code {
			t.Errorf("status %d: code %s, want %s", status, resp.Error.Code, code)
		}
	}
}
