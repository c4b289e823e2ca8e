package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ratotecki/smartgridlab-api/internal/models"
)

// NewsRepository persists news posts.
type NewsRepository interface {
	Create(ctx context.Context, news *models.News) error
	FindByID(ctx context.Context, id uint) (*models.News, error)
	// List returns posts ordered by the free-text date descending,
	// tie-broken by creation time descending.
	List(ctx context.Context) ([]models.News, error)
	Update(ctx context.Context, news *models.News) error
	Delete(ctx context.Context, id uint) error
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository constructs a repository backed by GORM.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(ctx context.Context, news *models.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *newsRepository) FindByID(ctx context.Context, id uint) (*models.News, error) {
	var news models.News
	if err := r.db.WithContext(ctx).First(&news, id).Error; err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *newsRepository) List(ctx context.Context) ([]models.News, error) {
	var items []models.News
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *newsRepository) Update(ctx context.Context, news *models.News) error {
	return r.db.WithContext(ctx).Save(news).Error
}

func (r *newsRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.News{}, id).Error
}
