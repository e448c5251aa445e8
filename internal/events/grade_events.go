package events

import (
	"time"

	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the kinds of events this service emits
type EventType string

const (
	EventGradeCalculated EventType = "grade.calculated"
	EventCatalogImported EventType = "catalog.imported"
)

const (
	eventSource  = "grade-service"
	eventVersion = "1.0"
)

// GradeEvent is the envelope shared by all published events
type GradeEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type GradeCalculatedEvent struct {
	TermCode     string                       `json:"term_code"`
	CurrentGrade float64                      `json:"current_grade"`
	Projections  []models.ThresholdProjection `json:"projections"`
	DroppedItems []string                     `json:"dropped_items"`
	EntryCount   int                          `json:"entry_count"`
	Cached       bool                         `json:"cached"`
}

type CatalogImportedEvent struct {
	TermCode  string `json:"term_code"`
	ItemCount int    `json:"item_count"`
}

func NewGradeCalculatedEvent(termCode string, result *models.GradeResult, entryCount int, cached bool) *GradeEvent {
	return newEvent(EventGradeCalculated, GradeCalculatedEvent{
		TermCode:     termCode,
		CurrentGrade: result.CurrentGrade,
		Projections:  result.Projections,
		DroppedItems: result.DroppedItemLabels,
		EntryCount:   entryCount,
		Cached:       cached,
	})
}

func NewCatalogImportedEvent(termCode string, itemCount int) *GradeEvent {
	return newEvent(EventCatalogImported, CatalogImportedEvent{
		TermCode:  termCode,
		ItemCount: itemCount,
	})
}

func newEvent(eventType EventType, data interface{}) *GradeEvent {
	return &GradeEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
