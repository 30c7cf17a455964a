package repositories

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleetnavigator/internal/models"
)

// ErrQuotaExceeded is returned when a write would grow the store past its quota.
var ErrQuotaExceeded = errors.New("local storage: quota exceeded")

// LocalStorage is a synchronous, durable key/value store with a bounded
// capacity. Quota is counted as the summed byte length of keys and values.
type LocalStorage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Keys() ([]string, error)
}

type localStorageRepository struct {
	db    *gorm.DB
	quota int64
}

// NewLocalStorageRepository stores entries in the local_entries table. A quota
// of zero disables the capacity check.
func NewLocalStorageRepository(db *gorm.DB, quota int64) LocalStorage {
	return &localStorageRepository{db: db, quota: quota}
}

func (r *localStorageRepository) GetItem(key string) (string, bool, error) {
	var entry models.LocalEntry
	if err := r.db.Where("storage_key = ?", key).Take(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *localStorageRepository) SetItem(key, value string) error {
	if key == "" {
		return fmt.Errorf("local storage: key is required")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if r.quota > 0 {
			var used int64
			if err := tx.Model(&models.LocalEntry{}).
				Where("storage_key <> ?", key).
				Select("COALESCE(SUM(LENGTH(CAST(storage_key AS BLOB)) + LENGTH(CAST(storage_value AS BLOB))), 0)").
				Scan(&used).Error; err != nil {
				return err
			}
			if used+int64(len(key)+len(value)) > r.quota {
				return fmt.Errorf("%w: writing %q", ErrQuotaExceeded, key)
			}
		}
		entry := models.LocalEntry{Key: key, Value: value, UpdatedAt: time.Now()}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"storage_value", "updated_at"}),
		}).Create(&entry).Error
	})
}

func (r *localStorageRepository) RemoveItem(key string) error {
	return r.db.Where("storage_key = ?", key).Delete(&models.LocalEntry{}).Error
}

func (r *localStorageRepository) Keys() ([]string, error) {
	var keys []string
	if err := r.db.Model(&models.LocalEntry{}).Pluck("storage_key", &keys).Error; err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
