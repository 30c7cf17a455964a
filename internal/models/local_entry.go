package models

import "time"

// LocalEntry is one key of the durable client-side key/value store.
type LocalEntry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:255"`
	Value     string    `gorm:"column:storage_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (LocalEntry) TableName() string {
	return "local_entries"
}
