package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/grade-service/internal/grading"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	missing := missingCategoryRule(&grading.MissingCategoryError{Categories: []models.Category{models.CategoryHomework}})

	tests := []struct {
		name     string
		err      error
		check    func(error) bool
		category string
	}{
		{"term not found", fmt.Errorf("failed to get term: %w", ErrTermNotFound), IsNotFound, "not_found"},
		{"term exists", fmt.Errorf("failed to create term: %w", ErrTermAlreadyExists), IsConflict, "conflict"},
		{"bad spreadsheet", fmt.Errorf("%w: bad row", ErrInvalidSpreadsheet), IsValidation, "validation"},
		{"single field", NewValidationError("file", "unsupported file format", ".txt"), IsValidation, "validation"},
		{"missing category", missing, IsBusinessRule, "business_rule"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.Equal(t, tt.category, FormatError(tt.err)["type"])
		})
	}

	assert.Equal(t, "unknown", FormatError(errors.New("boom"))["type"])
	assert.Nil(t, FormatError(nil))
	assert.Equal(t, errors.New("boom"), missingCategoryRule(errors.New("boom")))
}

func TestServiceLoggerLogOperation(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger := NewServiceLogger(base, LogConfig{Service: "grade-service", Component: "grades"})

	ctx := WithRequestID(context.Background(), "req-1")
	logger.LogOperation(ctx, "calculate_grade", "cs-fall-2024", time.Millisecond, fmt.Errorf("failed to get term: %w", ErrTermNotFound))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "not_found", entry["status"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "grades", entry["component"])

	buf.Reset()
	logger.LogOperation(ctx, "create_term", "x", time.Millisecond, ValidationErrors{{Field: "code", Message: "is required"}})
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "validation_error", entry["status"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, float64(1), entry["validation_errors_count"])

	buf.Reset()
	logger.Debug(ctx, "hidden")
	assert.Zero(t, buf.Len(), "debug output needs EnableDebug")
}
