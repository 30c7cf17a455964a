package services

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"fleetnavigator/internal/repositories"
)

// BackendServices aggregates the settings backend services backed by the database.
type BackendServices struct {
	Settings BackendSettingsService
}

// NewBackendServices constructs the service container using repositories backed by db.
func NewBackendServices(db *gorm.DB, log zerolog.Logger) *BackendServices {
	appSettingsRepo := repositories.NewAppSettingsRepository(db)

	return &BackendServices{
		Settings: NewBackendSettingsService(appSettingsRepo, log),
	}
}
