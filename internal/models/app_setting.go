package models

import "time"

// AppSetting is one key/value row of the backend settings table.
type AppSetting struct {
	ID          uint      `gorm:"primaryKey"`
	Key         string    `gorm:"column:setting_key;size:255;uniqueIndex;not null"`
	Value       *string   `gorm:"column:setting_value;type:text"`
	Description string    `gorm:"type:text"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}

// Backend setting keys.
const (
	SettingModelSelectionEnabled        = "model.selection.enabled"
	SettingCodeModel                    = "model.selection.code"
	SettingFastModel                    = "model.selection.fast"
	SettingVisionModel                  = "model.selection.vision"
	SettingDefaultModel                 = "model.default"
	SettingSelectedModel                = "model.selected"
	SettingShowWelcomeTiles             = "ui.showWelcomeTiles"
	SettingShowTopBar                   = "ui.showTopBar"
	SettingUITheme                      = "ui.theme"
	SettingVisionChainingEnabled        = "vision.chaining.enabled"
	SettingVisionChainingSmartSelection = "vision.chaining.smart.selection"
)
