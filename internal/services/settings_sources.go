package services

import (
	"fleetnavigator/internal/models"
	"fleetnavigator/internal/repositories"
)

// SettingsSource is one tier consulted when the settings record is loaded.
// Read returns nil when the tier holds nothing.
type SettingsSource interface {
	Name() string
	Read() (models.Settings, error)
}

// DefaultSources returns the load order for the settings record. Sources are
// applied in slice order and a later source overwrites earlier ones key by
// key, so the legacy chaining record wins for the two fields it carries.
func DefaultSources(storage repositories.LocalStorage) []SettingsSource {
	return []SettingsSource{
		defaultsSource{},
		storedRecordSource{storage: storage},
		chainingSource{storage: storage},
	}
}

type defaultsSource struct{}

func (defaultsSource) Name() string { return "defaults" }

func (defaultsSource) Read() (models.Settings, error) {
	return models.DefaultSettings(), nil
}

type storedRecordSource struct {
	storage repositories.LocalStorage
}

func (storedRecordSource) Name() string { return models.SettingsStorageKey }

func (s storedRecordSource) Read() (models.Settings, error) {
	raw, ok, err := s.storage.GetItem(models.SettingsStorageKey)
	if err != nil || !ok {
		return nil, err
	}
	return models.DecodeSettings(raw)
}

type chainingSource struct {
	storage repositories.LocalStorage
}

func (chainingSource) Name() string { return models.ChainingStorageKey }

func (s chainingSource) Read() (models.Settings, error) {
	raw, ok, err := s.storage.GetItem(models.ChainingStorageKey)
	if err != nil || !ok {
		return nil, err
	}
	chaining, err := models.DecodeChainingSettings(raw)
	if err != nil {
		return nil, err
	}
	return chaining.Overlay(), nil
}
