package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ratotecki/smartgridlab-api/internal/models"
)

// ContactRepository persists contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	List(ctx context.Context) ([]models.ContactMessage, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository constructs a repository backed by GORM.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *contactRepository) List(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
