package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MatchAuditLog records how a settlement record was resolved to a load: which key
// matched and whether more than one load carried it.
type MatchAuditLog struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	SettlementRecordID uuid.UUID `gorm:"type:uuid;index"`
	LoadID             uuid.UUID `gorm:"type:uuid;index"`
	MatchedBy          string    // "trip_id" or "load_id"
	Ambiguous          bool
	Candidates         int
	Details            datatypes.JSON
	CreatedAt          time.Time
}
