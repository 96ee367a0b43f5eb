package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nntexpressinc/blackhawks-backend/internal/models"
)

type PaymentBatchRepository struct {
	db *gorm.DB
}

func NewPaymentBatchRepository(db *gorm.DB) *PaymentBatchRepository {
	return &PaymentBatchRepository{db: db}
}

// Expose DB if needed
func (r *PaymentBatchRepository) DB() *gorm.DB {
	return r.db
}

func (r *PaymentBatchRepository) Create(batch *models.PaymentBatch) error {
	return r.db.Create(batch).Error
}

func (r *PaymentBatchRepository) GetByID(id uuid.UUID) (*models.PaymentBatch, error) {
	var batch models.PaymentBatch
	if err := r.db.First(&batch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// List returns batches newest first, optionally filtered by status, along with
// the total count for pagination.
func (r *PaymentBatchRepository) List(status string, limit, offset int) ([]models.PaymentBatch, int64, error) {
	query := r.db.Model(&models.PaymentBatch{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var batches []models.PaymentBatch
	err := query.Order("uploaded_at DESC").Limit(limit).Offset(offset).Find(&batches).Error
	return batches, total, err
}

// Delete removes a batch together with its settlement records and their audit
// entries. Loads updated by the batch are left alone.
func (r *PaymentBatchRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"settlement_record_id IN (?)",
			tx.Model(&models.SettlementRecord{}).Select("id").Where("payment_batch_id = ?", id),
		).Delete(&models.MatchAuditLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("payment_batch_id = ?", id).Delete(&models.SettlementRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PaymentBatch{}, "id = ?", id).Error
	})
}

// ClaimForProcessing flips a pending batch to processing. The conditional update
// is the durable guard against reprocessing: it reports false when the batch is
// already claimed, finished or failed.
func (r *PaymentBatchRepository) ClaimForProcessing(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.PaymentBatch{}).
		Where("id = ? AND status = ?", id, models.BatchStatusPending).
		Update("status", models.BatchStatusProcessing)
	return result.RowsAffected == 1, result.Error
}

func (r *PaymentBatchRepository) MarkCompleted(id uuid.UUID, total decimal.Decimal, loadsUpdated int) error {
	return r.db.Model(&models.PaymentBatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.BatchStatusCompleted,
			"processed_at":  time.Now(),
			"total_amount":  total,
			"loads_updated": loadsUpdated,
		}).Error
}

func (r *PaymentBatchRepository) MarkFailed(id uuid.UUID, message string) error {
	return r.db.Model(&models.PaymentBatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.BatchStatusFailed,
			"processed_at":  time.Now(),
			"error_message": message,
		}).Error
}

// FailStale marks batches stuck in processing longer than the cutoff as failed.
// Run by the watchdog; a crashed processing run would otherwise hold its batch
// in processing forever.
func (r *PaymentBatchRepository) FailStale(olderThan time.Duration) (int64, error) {
	result := r.db.Model(&models.PaymentBatch{}).
		Where("status = ? AND updated_at < ?", models.BatchStatusProcessing, time.Now().Add(-olderThan)).
		Updates(map[string]interface{}{
			"status":        models.BatchStatusFailed,
			"processed_at":  time.Now(),
			"error_message": "processing timed out",
		})
	return result.RowsAffected, result.Error
}
