package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nntexpressinc/blackhawks-backend/internal/models"
)

type SettlementRecordRepository struct {
	db *gorm.DB
}

func NewSettlementRecordRepository(db *gorm.DB) *SettlementRecordRepository {
	return &SettlementRecordRepository{db: db}
}

func (r *SettlementRecordRepository) Create(record *models.SettlementRecord) error {
	return r.db.Create(record).Error
}

// SetMatched links a record to its resolved load. Set at most once per record;
// the engine never revisits a match.
func (r *SettlementRecordRepository) SetMatched(recordID, loadID uuid.UUID) error {
	return r.db.Model(&models.SettlementRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"matched_load_id": loadID,
			"is_matched":      true,
		}).Error
}

func (r *SettlementRecordRepository) ListByBatch(batchID uuid.UUID) ([]models.SettlementRecord, error) {
	var records []models.SettlementRecord
	err := r.db.Where("payment_batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}
