package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementRecord is one aggregated trip (or load) group extracted from a batch.
// Records are owned by their batch and deleted with it; the matched load is a weak
// reference, so deleting a load leaves the record in place.
type SettlementRecord struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentBatchID uuid.UUID       `gorm:"type:uuid;index" json:"payment_batch_id"`
	TripID         *string         `json:"trip_id"`
	LoadID         *string         `json:"load_id"`
	Route          string          `json:"route"`
	GrossPay       decimal.Decimal `gorm:"type:numeric(12,2)" json:"gross_pay"`
	StartDate      *time.Time      `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	Distance       decimal.Decimal `gorm:"type:numeric(12,2)" json:"distance"`
	MatchedLoadID  *uuid.UUID      `gorm:"type:uuid" json:"matched_load_id"`
	IsMatched      bool            `gorm:"index" json:"is_matched"`
	CreatedAt      time.Time       `json:"created_at"`
}
