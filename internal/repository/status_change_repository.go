package repository

import (
	"context"

	"gorm.io/gorm"

	"workforce/internal/model"
)

// StatusChangeRepository defines persistence of the status audit trail.
type StatusChangeRepository interface {
	Create(ctx context.Context, change *model.StatusChange) error
	ListByEmployee(ctx context.Context, employeeID uint) ([]model.StatusChange, error)
}

type statusChangeRepository struct {
	db *gorm.DB
}

// NewStatusChangeRepository creates a new status change repository.
func NewStatusChangeRepository(db *gorm.DB) StatusChangeRepository {
	return &statusChangeRepository{db: db}
}

// Create records a status change.
func (r *statusChangeRepository) Create(ctx context.Context, change *model.StatusChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

// ListByEmployee returns the trail of one employee, oldest first.
func (r *statusChangeRepository) ListByEmployee(ctx context.Context, employeeID uint) ([]model.StatusChange, error) {
	var changes []model.StatusChange
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC, id ASC").
		Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}
