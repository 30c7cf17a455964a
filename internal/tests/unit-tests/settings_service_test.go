package unit_tests

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetnavigator/internal/models"
	"fleetnavigator/internal/services"
	"fleetnavigator/internal/tests/mocks"
)

func storedSettings(t *testing.T, storage *mocks.LocalStorageMock) models.Settings {
	t.Helper()
	raw, ok, err := storage.Memory.GetItem(models.SettingsStorageKey)
	require.NoError(t, err)
	require.True(t, ok, "settings record not stored")
	decoded, err := models.DecodeSettings(raw)
	require.NoError(t, err)
	return decoded
}

func TestSettingsService_LoadWithEmptyStorageYieldsDefaults(t *testing.T) {
	svc := services.NewSettingsService(mocks.NewLocalStorageMock(), nil, zerolog.Nop())

	assert.Equal(t, models.DefaultSettings(), svc.Snapshot())
}

func TestSettingsService_LoadAlwaysContainsDefaultKeys(t *testing.T) {
	cases := map[string]string{
		"partial record":   `{"language":"en","maxTokens":1024}`,
		"empty object":     `{}`,
		"unknown keys":     `{"somethingElse":true}`,
		"malformed json":   `{"language":`,
		"non-object value": `[1,2,3]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			storage := mocks.NewLocalStorageMock()
			seed(t, storage, map[string]string{models.SettingsStorageKey: raw})

			loaded := services.NewSettingsService(storage, nil, zerolog.Nop()).Snapshot()

			for key := range models.DefaultSettings() {
				assert.Contains(t, loaded, key)
			}
		})
	}
}

func TestSettingsService_StoredValuesOverrideDefaults(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	seed(t, storage, map[string]string{models.SettingsStorageKey: `{"language":"en","maxTokens":1024,"custom":"x"}`})

	loaded := services.NewSettingsService(storage, nil, zerolog.Nop()).Snapshot()

	assert.Equal(t, "en", loaded[models.KeyLanguage])
	assert.Equal(t, 1024.0, loaded[models.KeyMaxTokens])
	assert.Equal(t, "x", loaded["custom"])
	assert.Equal(t, 0.7, loaded[models.KeyTemperature])
}

func TestSettingsService_ChainingRecordOverridesPrimary(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	seed(t, storage, map[string]string{
		models.SettingsStorageKey: `{"visionChainEnabled":true,"preferredVisionModel":"llava:13b"}`,
		models.ChainingStorageKey: `{"enabled":false,"visionModel":"moondream:latest","showIntermediateOutput":true}`,
	})

	loaded := services.NewSettingsService(storage, nil, zerolog.Nop()).Snapshot()

	assert.Equal(t, false, loaded[models.KeyVisionChainEnabled])
	assert.Equal(t, "moondream:latest", loaded[models.KeyPreferredVisionModel])
}

func TestSettingsService_ChainingRecordWithoutPrimary(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	seed(t, storage, map[string]string{models.ChainingStorageKey: `{"visionModel":"moondream:latest"}`})

	loaded := services.NewSettingsService(storage, nil, zerolog.Nop()).Snapshot()

	assert.Equal(t, "moondream:latest", loaded[models.KeyPreferredVisionModel])
	assert.Equal(t, true, loaded[models.KeyVisionChainEnabled], "absent field keeps its default")
}

func TestSettingsService_MalformedChainingRecordIsIgnored(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	seed(t, storage, map[string]string{
		models.SettingsStorageKey: `{"preferredVisionModel":"llava:13b"}`,
		models.ChainingStorageKey: `null`,
	})

	loaded := services.NewSettingsService(storage, nil, zerolog.Nop()).Snapshot()

	assert.Equal(t, "llava:13b", loaded[models.KeyPreferredVisionModel])
}

func TestSettingsService_UpdateOverwritesOnlyPartialFields(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	svc := services.NewSettingsService(storage, nil, zerolog.Nop())
	before := svc.Snapshot()

	svc.Update(models.Settings{models.KeyTemperature: 0.2, models.KeyMaxTokens: 4096, models.KeyLanguage: "en"})

	expected := before.Clone()
	expected[models.KeyTemperature] = 0.2
	expected[models.KeyMaxTokens] = 4096.0
	expected[models.KeyLanguage] = "en"
	assert.Equal(t, expected, svc.Snapshot())
	assert.Equal(t, expected, storedSettings(t, storage))
	assert.Equal(t, expected, services.NewSettingsService(storage, nil, zerolog.Nop()).Snapshot())
}

func TestSettingsService_SetWritesThrough(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	svc := services.NewSettingsService(storage, nil, zerolog.Nop())

	svc.Set(models.KeyFontSize, "large")

	value, ok := svc.Get(models.KeyFontSize)
	assert.True(t, ok)
	assert.Equal(t, "large", value)
	assert.Equal(t, "large", storedSettings(t, storage)[models.KeyFontSize])
}

func TestSettingsService_ResetToDefaults(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	svc := services.NewSettingsService(storage, nil, zerolog.Nop())
	svc.Update(models.Settings{models.KeyLanguage: "en", "custom": true, models.KeyCPUOnly: true})

	svc.ResetToDefaults()

	assert.Equal(t, models.DefaultSettings(), svc.Snapshot())
	assert.Equal(t, models.DefaultSettings(), storedSettings(t, storage))
}

func TestSettingsService_ToggleSidebar(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	svc := services.NewSettingsService(storage, nil, zerolog.Nop())

	assert.True(t, svc.ToggleSidebar())
	assert.Equal(t, true, storedSettings(t, storage)[models.KeySidebarCollapsed])
	assert.False(t, svc.ToggleSidebar())
	assert.Equal(t, false, storedSettings(t, storage)[models.KeySidebarCollapsed])
}

func TestSettingsService_StorageFailureKeepsInMemoryChange(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	storage.SetItemFunc = func(string, string) error {
		return errors.New("quota exceeded")
	}
	svc := services.NewSettingsService(storage, nil, zerolog.Nop())

	assert.NotPanics(t, func() { svc.Set(models.KeyLanguage, "fr") })

	value, _ := svc.Get(models.KeyLanguage)
	assert.Equal(t, "fr", value)
}

func TestSettingsService_UnreadableStorageFallsBackToDefaults(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	storage.GetItemFunc = func(string) (string, bool, error) {
		return "", false, errors.New("storage disabled")
	}

	svc := services.NewSettingsService(storage, nil, zerolog.Nop())

	assert.Equal(t, models.DefaultSettings(), svc.Snapshot())
}

func TestSettingsService_ApplyRemotePatchesStoredRecord(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	svc := services.NewSettingsService(storage, nil, zerolog.Nop())
	svc.Set(models.KeyLanguage, "en")
	// another writer changed the stored record behind our back
	seed(t, storage, map[string]string{models.SettingsStorageKey: `{"language":"fr","fontSize":"small"}`})

	svc.ApplyRemote(models.Settings{models.KeyShowTopBar: false})

	stored := storedSettings(t, storage)
	assert.Equal(t, false, stored[models.KeyShowTopBar])
	assert.Equal(t, "fr", stored[models.KeyLanguage])
	assert.Equal(t, "small", stored[models.KeyFontSize])
	value, _ := svc.Get(models.KeyShowTopBar)
	assert.Equal(t, false, value)
}

func TestSettingsService_ApplyRemoteWithoutStoredRecord(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	svc := services.NewSettingsService(storage, nil, zerolog.Nop())

	svc.ApplyRemote(models.Settings{models.KeyUITheme: "tech-light"})

	stored := storedSettings(t, storage)
	assert.Equal(t, "tech-light", stored[models.KeyUITheme])
	assert.Equal(t, "de", stored[models.KeyLanguage])
}

func TestSettingsService_WriteChaining(t *testing.T) {
	storage := mocks.NewLocalStorageMock()
	svc := services.NewSettingsService(storage, nil, zerolog.Nop())
	enabled := false
	model := "moondream:latest"

	svc.WriteChaining(models.ChainingSettings{Enabled: &enabled, VisionModel: &model})

	raw, ok, err := storage.GetItem(models.ChainingStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"enabled":false,"visionModel":"moondream:latest","showIntermediateOutput":false}`, raw)
}

type staticSource struct {
	name   string
	values models.Settings
	err    error
}

func (s staticSource) Name() string                   { return s.name }
func (s staticSource) Read() (models.Settings, error) { return s.values, s.err }

func TestSettingsService_LaterSourceWins(t *testing.T) {
	sources := []services.SettingsSource{
		staticSource{name: "first", values: models.Settings{models.KeyLanguage: "en", models.KeyTheme: "dark"}},
		staticSource{name: "broken", err: errors.New("boom")},
		staticSource{name: "second", values: models.Settings{models.KeyLanguage: "fr"}},
	}

	loaded := services.NewSettingsService(mocks.NewLocalStorageMock(), sources, zerolog.Nop()).Snapshot()

	assert.Equal(t, "fr", loaded[models.KeyLanguage])
	assert.Equal(t, "dark", loaded[models.KeyTheme])
	assert.Equal(t, 0.7, loaded[models.KeyTemperature])
}
