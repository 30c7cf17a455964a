package mocks

import (
	"context"
	"errors"

	"fleetnavigator/internal/models"
)

// ErrNotConfigured is returned by RemoteSettingsMock methods without a func.
var ErrNotConfigured = errors.New("mock: not configured")

type RemoteSettingsMock struct {
	CurrentVersionFunc       func(ctx context.Context) (string, error)
	ShowWelcomeTilesFunc     func(ctx context.Context) (bool, error)
	SetShowWelcomeTilesFunc  func(ctx context.Context, show bool) error
	ShowTopBarFunc           func(ctx context.Context) (bool, error)
	SetShowTopBarFunc        func(ctx context.Context, show bool) error
	UIThemeFunc              func(ctx context.Context) (string, error)
	SetUIThemeFunc           func(ctx context.Context, theme string) error
	ModelSelectionFunc       func(ctx context.Context) (*models.ModelSelectionSettings, error)
	UpdateModelSelectionFunc func(ctx context.Context, in models.ModelSelectionSettings) (*models.ModelSelectionSettings, error)
}

func (m *RemoteSettingsMock) CurrentVersion(ctx context.Context) (string, error) {
	if m.CurrentVersionFunc != nil {
		return m.CurrentVersionFunc(ctx)
	}
	return "", ErrNotConfigured
}

func (m *RemoteSettingsMock) ShowWelcomeTiles(ctx context.Context) (bool, error) {
	if m.ShowWelcomeTilesFunc != nil {
		return m.ShowWelcomeTilesFunc(ctx)
	}
	return false, ErrNotConfigured
}

func (m *RemoteSettingsMock) SetShowWelcomeTiles(ctx context.Context, show bool) error {
	if m.SetShowWelcomeTilesFunc != nil {
		return m.SetShowWelcomeTilesFunc(ctx, show)
	}
	return ErrNotConfigured
}

func (m *RemoteSettingsMock) ShowTopBar(ctx context.Context) (bool, error) {
	if m.ShowTopBarFunc != nil {
		return m.ShowTopBarFunc(ctx)
	}
	return false, ErrNotConfigured
}

func (m *RemoteSettingsMock) SetShowTopBar(ctx context.Context, show bool) error {
	if m.SetShowTopBarFunc != nil {
		return m.SetShowTopBarFunc(ctx, show)
	}
	return ErrNotConfigured
}

func (m *RemoteSettingsMock) UITheme(ctx context.Context) (string, error) {
	if m.UIThemeFunc != nil {
		return m.UIThemeFunc(ctx)
	}
	return "", ErrNotConfigured
}

func (m *RemoteSettingsMock) SetUITheme(ctx context.Context, theme string) error {
	if m.SetUIThemeFunc != nil {
		return m.SetUIThemeFunc(ctx, theme)
	}
	return ErrNotConfigured
}

func (m *RemoteSettingsMock) ModelSelection(ctx context.Context) (*models.ModelSelectionSettings, error) {
	if m.ModelSelectionFunc != nil {
		return m.ModelSelectionFunc(ctx)
	}
	return nil, ErrNotConfigured
}

func (m *RemoteSettingsMock) UpdateModelSelection(ctx context.Context, in models.ModelSelectionSettings) (*models.ModelSelectionSettings, error) {
	if m.UpdateModelSelectionFunc != nil {
		return m.UpdateModelSelectionFunc(ctx, in)
	}
	return nil, ErrNotConfigured
}
