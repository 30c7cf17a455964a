package main

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm/logger"

	"fleetnavigator/internal/config"
	"fleetnavigator/internal/database"
	"fleetnavigator/internal/models"
	"fleetnavigator/internal/remote"
	"fleetnavigator/internal/repositories"
	"fleetnavigator/internal/services"
)

// SelectedModelRemote is the backend's record of the last chat model.
type SelectedModelRemote interface {
	SelectedModel(ctx context.Context) (string, bool, error)
	SetSelectedModel(ctx context.Context, model string) error
}

var _ SelectedModelRemote = (*remote.Client)(nil)

// App struct
type App struct {
	ctx       context.Context
	cfg       *config.Config
	log       zerolog.Logger
	client    *services.ClientServices
	selection SelectedModelRemote
	dbClose   func() error
	pending   sync.WaitGroup
}

// NewApp creates a new App application struct
func NewApp(cfg *config.Config, log zerolog.Logger, selection SelectedModelRemote) *App {
	return &App{cfg: cfg, log: log, selection: selection}
}

// startup opens local storage and starts the settings client. The context is
// kept for the background sync calls made later.
func (a *App) startup(ctx context.Context, opts services.ClientOptions) error {
	a.ctx = ctx

	storage, err := a.openStorage()
	if err != nil {
		return err
	}
	opts.Storage = storage
	opts.Log = a.log
	if opts.Prefixes == nil {
		opts.Prefixes = a.cfg.Purge.Prefixes
	}
	if opts.Keep == nil {
		opts.Keep = a.cfg.Purge.Keep
	}

	a.client = services.StartClient(ctx, opts)
	return nil
}

func (a *App) openStorage() (repositories.LocalStorage, error) {
	if a.cfg.Storage.Path == ":memory:" {
		return repositories.NewMemoryLocalStorage(a.cfg.Storage.QuotaBytes), nil
	}

	db, err := database.Init(database.Config{
		Path:     a.cfg.Storage.Path,
		LogLevel: logger.Warn,
		Logger:   a.log,
		Models:   database.ClientModels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}
	// Capture DB close for graceful shutdown
	if sqlDB, err := db.DB(); err != nil {
		a.log.Error().Err(err).Msg("failed to get sql.DB")
	} else {
		a.dbClose = sqlDB.Close
	}
	return repositories.NewLocalStorageRepository(db, a.cfg.Storage.QuotaBytes), nil
}

// shutdown waits for in-flight sync calls and closes local storage.
func (a *App) shutdown(ctx context.Context) {
	if a.client != nil {
		a.client.Sync.Wait()
	}
	a.pending.Wait()
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			a.log.Error().Err(err).Msg("failed to close database")
		}
	}
}

// Settings returns the current settings record.
func (a *App) Settings() models.Settings {
	return a.client.Settings.Snapshot()
}

// SetSetting stores a value locally and, for backend-authoritative fields,
// sends it to the backend in the background.
func (a *App) SetSetting(key string, value any) {
	a.client.Settings.Set(key, value)
	if slices.Contains(a.client.Sync.Fields(), key) {
		a.client.Sync.Push(a.ctx, key, value)
	}
}

// SaveVisionSettings stores the vision fields locally and sends them to the
// backend model selection.
func (a *App) SaveVisionSettings(model string, chainingEnabled bool) {
	if !models.IsVisionModel(model) {
		a.log.Warn().Str("model", model).Msg("preferred vision model does not look vision-capable")
	}
	a.client.Settings.Update(models.Settings{
		models.KeyPreferredVisionModel: model,
		models.KeyVisionChainEnabled:   chainingEnabled,
	})
	a.client.Sync.PushVisionSettings(a.ctx)
}

// VisionModels lists the selectable vision models. A preferred model outside
// the catalog is listed first.
func (a *App) VisionModels() []string {
	catalog := models.VisionModels()
	preferred, _ := a.client.Settings.Snapshot().String(models.KeyPreferredVisionModel)
	if preferred == "" || slices.Contains(catalog, preferred) {
		return catalog
	}
	return append([]string{preferred}, catalog...)
}

// SelectModel caches the chat model locally and records it on the backend in
// the background. A failed backend write is logged only.
func (a *App) SelectModel(model string) {
	if err := a.client.Storage.SetItem(models.SelectedModelStorageKey, model); err != nil {
		a.log.Warn().Err(err).Msg("cannot cache selected model")
	}
	ctx := context.WithoutCancel(a.ctx)
	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		if err := a.selection.SetSelectedModel(ctx, model); err != nil {
			a.log.Warn().Err(err).Str("model", model).Msg("cannot save selected model to backend")
		}
	}()
}

// SelectedModel prefers the backend's record and falls back to the local
// cache when the backend is unreachable or has none.
func (a *App) SelectedModel() (string, bool) {
	model, ok, err := a.selection.SelectedModel(a.ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("cannot read selected model from backend")
	}
	if err == nil && ok {
		if err := a.client.Storage.SetItem(models.SelectedModelStorageKey, model); err != nil {
			a.log.Warn().Err(err).Msg("cannot cache selected model")
		}
		return model, true
	}
	cached, ok, err := a.client.Storage.GetItem(models.SelectedModelStorageKey)
	if err != nil || !ok || cached == "" {
		return "", false
	}
	return cached, true
}

// SyncVisionSettings pulls the vision fields from the backend.
func (a *App) SyncVisionSettings() {
	a.client.Sync.SyncVisionSettings(a.ctx)
}

// versionSource picks where the current version marker comes from.
func versionSource(cfg *config.Config, buildVersion string, rc *remote.Client) services.VersionSource {
	if cfg.App.VersionSource == "build" {
		if buildVersion != "" {
			return services.StaticVersion(buildVersion)
		}
		return services.StaticVersion(cfg.App.Version)
	}
	return rc
}
