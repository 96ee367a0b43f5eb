package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Load is the shipment record owned by the dispatch subsystem. The reconciliation
// engine only reads ReferenceID and increments AmazonAmount; everything else about
// a load lives elsewhere. ReferenceID is indexed but not unique — duplicates exist
// in practice and the matcher has to tolerate them.
type Load struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReferenceID  string          `gorm:"index" json:"reference_id"`
	AmazonAmount decimal.Decimal `gorm:"type:numeric(12,2)" json:"amazon_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}
