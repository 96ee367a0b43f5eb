package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch lifecycle statuses. A batch moves pending -> processing -> completed|failed.
const (
	BatchStatusPending    = "pending"
	BatchStatusProcessing = "processing"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
)

// PaymentBatch is one uploaded Amazon Relay settlement file and its processing record.
type PaymentBatch struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Filename     string          `json:"filename"`
	Status       string          `gorm:"index" json:"status"`
	UploadedAt   time.Time       `json:"uploaded_at"`
	ProcessedAt  *time.Time      `json:"processed_at"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_amount"`
	LoadsUpdated int             `json:"loads_updated"`
	ErrorMessage string          `json:"error_message"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
