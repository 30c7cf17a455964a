package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"fleetnavigator/internal/models"
	"fleetnavigator/internal/repositories"
)

// Defaults served when the backend table has no row for a key.
const (
	defaultCodeModel    = "qwen2.5-coder:7b"
	defaultFastModel    = "llama3.2:3b"
	defaultVisionModel  = "llava:13b"
	defaultDefaultModel = "qwen2.5-coder:7b"
)

// BackendSettingsService is the source of truth behind /api/settings.
type BackendSettingsService interface {
	ShowWelcomeTiles(ctx context.Context) (bool, error)
	SaveShowWelcomeTiles(ctx context.Context, show bool) error
	ShowTopBar(ctx context.Context) (bool, error)
	SaveShowTopBar(ctx context.Context, show bool) error
	UITheme(ctx context.Context) (string, error)
	SaveUITheme(ctx context.Context, theme string) error
	ModelSelection(ctx context.Context) (*models.ModelSelectionSettings, error)
	UpdateModelSelection(ctx context.Context, in models.ModelSelectionSettings) (*models.ModelSelectionSettings, error)
	// SelectedModel reports ok=false when no model was ever selected.
	SelectedModel(ctx context.Context) (string, bool, error)
	SaveSelectedModel(ctx context.Context, model string) error
}

type backendSettingsService struct {
	repo repositories.AppSettingsRepository
	log  zerolog.Logger
}

func NewBackendSettingsService(repo repositories.AppSettingsRepository, log zerolog.Logger) BackendSettingsService {
	return &backendSettingsService{repo: repo, log: log}
}

func (s *backendSettingsService) ShowWelcomeTiles(ctx context.Context) (bool, error) {
	return s.boolSetting(ctx, models.SettingShowWelcomeTiles, true)
}

func (s *backendSettingsService) SaveShowWelcomeTiles(ctx context.Context, show bool) error {
	s.log.Info().Bool("show", show).Msg("saving showWelcomeTiles")
	return s.save(ctx, models.SettingShowWelcomeTiles, strconv.FormatBool(show), "Show welcome tiles on start")
}

func (s *backendSettingsService) ShowTopBar(ctx context.Context) (bool, error) {
	return s.boolSetting(ctx, models.SettingShowTopBar, true)
}

func (s *backendSettingsService) SaveShowTopBar(ctx context.Context, show bool) error {
	s.log.Info().Bool("show", show).Msg("saving showTopBar")
	return s.save(ctx, models.SettingShowTopBar, strconv.FormatBool(show), "Show top navigation bar")
}

func (s *backendSettingsService) UITheme(ctx context.Context) (string, error) {
	return s.stringSetting(ctx, models.SettingUITheme, models.DefaultUITheme)
}

// SaveUITheme strips quotes so JSON-encoded and plain bodies store the same value.
func (s *backendSettingsService) SaveUITheme(ctx context.Context, theme string) error {
	clean := strings.TrimSpace(strings.ReplaceAll(theme, `"`, ""))
	if clean == "" {
		clean = models.DefaultUITheme
	}
	s.log.Info().Str("theme", clean).Msg("saving uiTheme")
	return s.save(ctx, models.SettingUITheme, clean, "UI Theme (tech-dark, tech-light, lawyer-dark, lawyer-light)")
}

func (s *backendSettingsService) ModelSelection(ctx context.Context) (*models.ModelSelectionSettings, error) {
	var (
		out models.ModelSelectionSettings
		err error
	)
	if out.Enabled, err = s.boolSetting(ctx, models.SettingModelSelectionEnabled, true); err != nil {
		return nil, err
	}
	if out.CodeModel, err = s.stringSetting(ctx, models.SettingCodeModel, defaultCodeModel); err != nil {
		return nil, err
	}
	if out.FastModel, err = s.stringSetting(ctx, models.SettingFastModel, defaultFastModel); err != nil {
		return nil, err
	}
	if out.VisionModel, err = s.stringSetting(ctx, models.SettingVisionModel, defaultVisionModel); err != nil {
		return nil, err
	}
	if out.DefaultModel, err = s.stringSetting(ctx, models.SettingDefaultModel, defaultDefaultModel); err != nil {
		return nil, err
	}
	chaining, err := s.boolSetting(ctx, models.SettingVisionChainingEnabled, false)
	if err != nil {
		return nil, err
	}
	out.VisionChainingEnabled = &chaining
	if out.VisionChainingSmartSelection, err = s.boolSetting(ctx, models.SettingVisionChainingSmartSelection, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *backendSettingsService) UpdateModelSelection(ctx context.Context, in models.ModelSelectionSettings) (*models.ModelSelectionSettings, error) {
	s.log.Info().Msg("updating model selection settings")

	chaining := false
	if in.VisionChainingEnabled != nil {
		chaining = *in.VisionChainingEnabled
	}
	writes := []struct {
		key, value, description string
	}{
		{models.SettingModelSelectionEnabled, strconv.FormatBool(in.Enabled), "Enable/disable smart model selection"},
		{models.SettingCodeModel, in.CodeModel, "Model for code-related tasks"},
		{models.SettingFastModel, in.FastModel, "Model for simple Q&A"},
		{models.SettingVisionModel, in.VisionModel, "Model for vision tasks"},
		{models.SettingDefaultModel, in.DefaultModel, "Default model for new chats"},
		{models.SettingVisionChainingEnabled, strconv.FormatBool(chaining), "Enable vision chaining (Vision Model -> Main Model)"},
		{models.SettingVisionChainingSmartSelection, strconv.FormatBool(in.VisionChainingSmartSelection), "Use smart model selection for main model in vision chaining"},
	}
	for _, w := range writes {
		if err := s.save(ctx, w.key, w.value, w.description); err != nil {
			return nil, err
		}
	}
	return s.ModelSelection(ctx)
}

func (s *backendSettingsService) SelectedModel(ctx context.Context) (string, bool, error) {
	setting, err := s.repo.FindByKey(ctx, models.SettingSelectedModel)
	if err != nil {
		return "", false, err
	}
	if setting == nil || setting.Value == nil || *setting.Value == "" {
		return "", false, nil
	}
	return *setting.Value, true, nil
}

func (s *backendSettingsService) SaveSelectedModel(ctx context.Context, model string) error {
	s.log.Info().Str("model", model).Msg("saving selected model")
	return s.save(ctx, models.SettingSelectedModel, model, "User's last selected model")
}

func (s *backendSettingsService) stringSetting(ctx context.Context, key, fallback string) (string, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return "", err
	}
	if setting == nil || setting.Value == nil {
		return fallback, nil
	}
	return *setting.Value, nil
}

func (s *backendSettingsService) boolSetting(ctx context.Context, key string, fallback bool) (bool, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return false, err
	}
	if setting == nil || setting.Value == nil {
		return fallback, nil
	}
	return strings.EqualFold(*setting.Value, "true"), nil
}

func (s *backendSettingsService) save(ctx context.Context, key, value, description string) error {
	return s.repo.Save(ctx, key, &value, description)
}
