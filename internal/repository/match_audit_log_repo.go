package repository

import (
	"gorm.io/gorm"

	"github.com/nntexpressinc/blackhawks-backend/internal/models"
)

type MatchAuditLogRepository struct {
	db *gorm.DB
}

func NewMatchAuditLogRepository(db *gorm.DB) *MatchAuditLogRepository {
	return &MatchAuditLogRepository{db: db}
}

func (r *MatchAuditLogRepository) Create(entry *models.MatchAuditLog) error {
	return r.db.Create(entry).Error
}
