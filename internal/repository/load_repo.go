package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nntexpressinc/blackhawks-backend/internal/models"
)

type LoadRepository struct {
	db *gorm.DB
}

func NewLoadRepository(db *gorm.DB) *LoadRepository {
	return &LoadRepository{db: db}
}

func (r *LoadRepository) Create(load *models.Load) error {
	return r.db.Create(load).Error
}

func (r *LoadRepository) GetByID(id uuid.UUID) (*models.Load, error) {
	var load models.Load
	if err := r.db.First(&load, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &load, nil
}

// FindAllByReferenceID returns every load carrying the key, oldest first.
// Reference ids are not unique; callers own the duplicate policy.
func (r *LoadRepository) FindAllByReferenceID(key string) ([]models.Load, error) {
	var loads []models.Load
	err := r.db.Where("reference_id = ?", key).
		Order("created_at ASC").
		Find(&loads).Error
	return loads, err
}

// IncrementAmazonAmount adds delta to the load's accumulated amount in a single
// UPDATE, so concurrent batches landing on the same load cannot lose updates.
func (r *LoadRepository) IncrementAmazonAmount(id uuid.UUID, delta decimal.Decimal) (*models.Load, error) {
	result := r.db.Model(&models.Load{}).
		Where("id = ?", id).
		UpdateColumn("amazon_amount", gorm.Expr("amazon_amount + ?", delta))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}
