package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleetnavigator/internal/models"
)

type AppSettingsRepository interface {
	// FindByKey returns nil without error when the key has never been saved.
	FindByKey(ctx context.Context, key string) (*models.AppSetting, error)
	Save(ctx context.Context, key string, value *string, description string) error
}

type appSettingsRepository struct {
	db *gorm.DB
}

func NewAppSettingsRepository(db *gorm.DB) AppSettingsRepository {
	return &appSettingsRepository{db: db}
}

func (r *appSettingsRepository) FindByKey(ctx context.Context, key string) (*models.AppSetting, error) {
	if key == "" {
		return nil, fmt.Errorf("setting key is required")
	}
	var setting models.AppSetting
	if err := r.db.WithContext(ctx).Where("setting_key = ?", key).Take(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (r *appSettingsRepository) Save(ctx context.Context, key string, value *string, description string) error {
	if key == "" {
		return fmt.Errorf("setting key is required")
	}
	record := models.AppSetting{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "description", "updated_at"}),
	}).Create(&record).Error
}
