package events

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeStatementImported = "statement.imported"

// StatementImportedEvent is published after an upload has been committed.
type StatementImportedEvent struct {
	BaseEvent
	BatchID  string   `json:"batch_id"`
	FileName string   `json:"file_name"`
	Total    int      `json:"total"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Months   []string `json:"months"`
}

func NewStatementImportedEvent(batchID, fileName string, total, inserted, skipped int, months []string) *StatementImportedEvent {
	return &StatementImportedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeStatementImported,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"batch_id":  batchID,
				"file_name": fileName,
				"total":     total,
				"inserted":  inserted,
				"skipped":   skipped,
				"months":    months,
			},
		},
		BatchID:  batchID,
		FileName: fileName,
		Total:    total,
		Inserted: inserted,
		Skipped:  skipped,
		Months:   months,
	}
}
