package sqlstore

import (
	"ClipHub/internal/model"
	"context"

	"gorm.io/gorm"
)

type searchHistoryRepository struct {
	db *gorm.DB
}

func (r *searchHistoryRepository) Create(ctx context.Context, entry *model.SearchHistory) error {
	row := searchHistoryRow{Query: entry.Query, CreatedAt: entry.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	entry.ID = formatID(row.ID)
	entry.CreatedAt = row.CreatedAt
	return nil
}
