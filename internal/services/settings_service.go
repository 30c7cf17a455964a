package services

import (
	"sync"

	"github.com/rs/zerolog"

	"fleetnavigator/internal/models"
	"fleetnavigator/internal/repositories"
)

// SettingsService holds the in-memory settings record. Every mutation is
// written through to local storage before the call returns. Storage failures
// are logged and never returned; the in-memory change is kept.
type SettingsService interface {
	// Load rebuilds the record from its sources and replaces the in-memory copy.
	Load() models.Settings
	// Snapshot returns a copy of the current record.
	Snapshot() models.Settings
	Get(key string) (any, bool)
	Set(key string, value any)
	Update(partial models.Settings)
	ResetToDefaults()
	ToggleSidebar() bool

	// ApplyRemote overwrites fields with backend-authoritative values and
	// patches them into the stored record.
	ApplyRemote(values models.Settings)
	// WriteChaining replaces the legacy chaining record.
	WriteChaining(chaining models.ChainingSettings)
}

type settingsService struct {
	storage repositories.LocalStorage
	sources []SettingsSource
	log     zerolog.Logger

	mu       sync.RWMutex
	settings models.Settings
}

// NewSettingsService builds the aggregator and loads the record once. A nil
// sources slice selects DefaultSources.
func NewSettingsService(storage repositories.LocalStorage, sources []SettingsSource, log zerolog.Logger) SettingsService {
	if sources == nil {
		sources = DefaultSources(storage)
	}
	s := &settingsService{
		storage: storage,
		sources: sources,
		log:     log,
	}
	s.Load()
	return s
}

func (s *settingsService) Load() models.Settings {
	merged := models.Settings{}
	for _, src := range s.sources {
		values, err := src.Read()
		if err != nil {
			s.log.Warn().Err(err).Str("source", src.Name()).Msg("settings source unreadable, skipping")
			continue
		}
		if values == nil {
			continue
		}
		merged.Merge(values)
	}
	// defaults are always complete even when a custom source list omits them
	for k, v := range models.DefaultSettings() {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}

	s.mu.Lock()
	s.settings = merged
	s.mu.Unlock()

	s.log.Debug().Interface("maxTokens", merged[models.KeyMaxTokens]).Interface("temperature", merged[models.KeyTemperature]).Msg("settings loaded")
	return merged.Clone()
}

func (s *settingsService) Snapshot() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

func (s *settingsService) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[key]
	return v, ok
}

func (s *settingsService) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = models.NormalizeValue(value)
	s.persistLocked()
}

func (s *settingsService) Update(partial models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range partial {
		s.settings[k] = models.NormalizeValue(v)
	}
	s.persistLocked()
}

func (s *settingsService) ResetToDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = models.DefaultSettings()
	s.persistLocked()
}

func (s *settingsService) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	collapsed, _ := s.settings.Bool(models.KeySidebarCollapsed)
	s.settings[models.KeySidebarCollapsed] = !collapsed
	s.persistLocked()
	return !collapsed
}

func (s *settingsService) ApplyRemote(values models.Settings) {
	if len(values) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.settings[k] = models.NormalizeValue(v)
	}
	s.patchStoredLocked(values)
}

func (s *settingsService) WriteChaining(chaining models.ChainingSettings) {
	raw, err := chaining.Encode()
	if err != nil {
		s.log.Warn().Err(err).Msg("cannot encode chaining settings")
		return
	}
	if err := s.storage.SetItem(models.ChainingStorageKey, raw); err != nil {
		s.log.Warn().Err(err).Msg("cannot save chaining settings")
	}
}

func (s *settingsService) persistLocked() {
	raw, err := s.settings.Encode()
	if err != nil {
		s.log.Warn().Err(err).Msg("cannot encode settings")
		return
	}
	if err := s.storage.SetItem(models.SettingsStorageKey, raw); err != nil {
		s.log.Warn().Err(err).Msg("cannot save settings to local storage")
	}
}

// patchStoredLocked sets the given fields in the stored record, leaving its
// other fields as they are. A missing or unreadable record is replaced by the
// in-memory one.
func (s *settingsService) patchStoredLocked(values models.Settings) {
	raw, ok, err := s.storage.GetItem(models.SettingsStorageKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("cannot read stored settings for patch")
		return
	}
	stored := s.settings.Clone()
	if ok {
		if decoded, err := models.DecodeSettings(raw); err == nil {
			stored = decoded
			for k, v := range values {
				stored[k] = models.NormalizeValue(v)
			}
		} else {
			s.log.Warn().Err(err).Msg("stored settings malformed, rewriting")
		}
	}
	encoded, err := stored.Encode()
	if err != nil {
		s.log.Warn().Err(err).Msg("cannot encode settings")
		return
	}
	if err := s.storage.SetItem(models.SettingsStorageKey, encoded); err != nil {
		s.log.Warn().Err(err).Msg("cannot save settings to local storage")
	}
}
