package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ratotecki/smartgridlab-api/internal/models"
)

// WaitingListRepository persists waiting-list signups. Create relies on
// the unique index on email; a duplicate surfaces as
// gorm.ErrDuplicatedKey through the driver's error translation rather
// than an application-level pre-check.
type WaitingListRepository interface {
	Create(ctx context.Context, entry *models.WaitingListEntry) error
	List(ctx context.Context) ([]models.WaitingListEntry, error)
}

type waitingListRepository struct {
	db *gorm.DB
}

// NewWaitingListRepository constructs a repository backed by GORM.
func NewWaitingListRepository(db *gorm.DB) WaitingListRepository {
	return &waitingListRepository{db: db}
}

func (r *waitingListRepository) Create(ctx context.Context, entry *models.WaitingListEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *waitingListRepository) List(ctx context.Context) ([]models.WaitingListEntry, error) {
	var entries []models.WaitingListEntry
	err := r.db.WithContext(ctx).
		Order("registration_timestamp DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
