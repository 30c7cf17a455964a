package mocks

import (
	"context"
	"sync"

	"fleetnavigator/internal/models"
)

// AppSettingsRepositoryMock keeps rows in a map unless a func field is set.
type AppSettingsRepositoryMock struct {
	FindByKeyFunc func(ctx context.Context, key string) (*models.AppSetting, error)
	SaveFunc      func(ctx context.Context, key string, value *string, description string) error

	mu   sync.Mutex
	rows map[string]models.AppSetting
}

func (m *AppSettingsRepositoryMock) FindByKey(ctx context.Context, key string) (*models.AppSetting, error) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[key]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *AppSettingsRepositoryMock) Save(ctx context.Context, key string, value *string, description string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, key, value, description)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]models.AppSetting{}
	}
	m.rows[key] = models.AppSetting{Key: key, Value: value, Description: description}
	return nil
}
