package integration_tests

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fleetnavigator/internal/database"
	"fleetnavigator/internal/events"
	"fleetnavigator/internal/handler"
	"fleetnavigator/internal/models"
	"fleetnavigator/internal/remote"
	"fleetnavigator/internal/repositories"
	"fleetnavigator/internal/services"
)

func openDB(t *testing.T, name string, list []any) *gorm.DB {
	t.Helper()
	db, err := database.Init(database.Config{
		Path:   filepath.Join(t.TempDir(), name),
		Logger: zerolog.Nop(),
		Models: list,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func startBackend(t *testing.T, db *gorm.DB, version string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := services.NewBackendServices(db, zerolog.Nop())
	r := gin.New()
	handler.NewHandler(svc.Settings, version, "", zerolog.Nop()).RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func startClient(storage repositories.LocalStorage, rc *remote.Client, recorder *events.Recorder) *services.ClientServices {
	client := services.StartClient(context.Background(), services.ClientOptions{
		Storage: storage,
		Version: rc,
		Remote:  rc,
		Sink:    recorder.Sink(),
		Log:     zerolog.Nop(),
	})
	client.Sync.Wait()
	return client
}

func TestSettingsSync_AgainstBackend(t *testing.T) {
	backendDB := openDB(t, "backend.db", database.BackendModels)
	storage := repositories.NewLocalStorageRepository(openDB(t, "client.db", database.ClientModels), 0)

	server := startBackend(t, backendDB, "2.1.0")
	rc := remote.New(server.URL, 0)
	ctx := context.Background()
	require.NoError(t, rc.SetUITheme(ctx, "lawyer-light"))
	require.NoError(t, rc.SetShowTopBar(ctx, false))

	recorder := &events.Recorder{}
	client := startClient(storage, rc, recorder)

	assert.True(t, client.Gate.FirstRun)
	snapshot := client.Settings.Snapshot()
	assert.Equal(t, "lawyer-light", snapshot[models.KeyUITheme])
	assert.Equal(t, false, snapshot[models.KeyShowTopBar])
	assert.Equal(t, true, snapshot[models.KeyShowWelcomeTiles])
	for _, evt := range recorder.Events() {
		assert.False(t, evt.Failed(), evt.Error)
	}

	// local edits and a push survive a restart on the same version
	client.Settings.Set(models.KeyLanguage, "en")
	client.Sync.Push(ctx, models.KeyShowWelcomeTiles, false)
	client.Sync.SyncVisionSettings(ctx)
	client.Sync.Wait()

	restarted := startClient(storage, rc, &events.Recorder{})
	assert.False(t, restarted.Reloaded)
	assert.Equal(t, "en", restarted.Settings.Snapshot()[models.KeyLanguage])
	assert.Equal(t, false, restarted.Settings.Snapshot()[models.KeyShowWelcomeTiles])
	assert.Equal(t, "llava:13b", restarted.Settings.Snapshot()[models.KeyPreferredVisionModel])

	// a new backend build invalidates the local cache
	upgraded := startBackend(t, backendDB, "2.2.0")
	rc2 := remote.New(upgraded.URL, 0)
	after := startClient(storage, rc2, &events.Recorder{})

	assert.True(t, after.Reloaded)
	assert.Contains(t, after.Gate.Purged, models.SettingsStorageKey)
	assert.Contains(t, after.Gate.Purged, models.ChainingStorageKey)
	assert.Equal(t, "de", after.Settings.Snapshot()[models.KeyLanguage])
	assert.Equal(t, "lawyer-light", after.Settings.Snapshot()[models.KeyUITheme])
	marker, _, err := storage.GetItem(models.VersionStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "2.2.0", marker)
}

func TestSettingsSync_BackendDown(t *testing.T) {
	storage := repositories.NewMemoryLocalStorage(0)
	require.NoError(t, storage.SetItem(models.VersionStorageKey, "2.1.0"))
	require.NoError(t, storage.SetItem(models.SettingsStorageKey, `{"uiTheme":"tech-light"}`))

	server := httptest.NewServer(nil)
	server.Close()
	rc := remote.New(server.URL, 0)
	recorder := &events.Recorder{}

	client := startClient(storage, rc, recorder)

	assert.True(t, client.Gate.Skipped)
	assert.Equal(t, "tech-light", client.Settings.Snapshot()[models.KeyUITheme])
	assert.Len(t, recorder.Events(), 3)
	for _, evt := range recorder.Events() {
		assert.True(t, evt.Failed())
	}
	keys, _ := storage.Keys()
	assert.Len(t, keys, 2)
}
