package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"fleetnavigator/internal/events"
	"fleetnavigator/internal/models"
)

var (
	ErrUnknownField = errors.New("settings sync: unknown backend field")
	ErrInvalidValue = errors.New("settings sync: invalid value")
)

// RemoteSettings is the part of the settings backend the sync adapter talks to.
type RemoteSettings interface {
	ShowWelcomeTiles(ctx context.Context) (bool, error)
	SetShowWelcomeTiles(ctx context.Context, show bool) error
	ShowTopBar(ctx context.Context) (bool, error)
	SetShowTopBar(ctx context.Context, show bool) error
	UITheme(ctx context.Context) (string, error)
	SetUITheme(ctx context.Context, theme string) error
	ModelSelection(ctx context.Context) (*models.ModelSelectionSettings, error)
	UpdateModelSelection(ctx context.Context, in models.ModelSelectionSettings) (*models.ModelSelectionSettings, error)
}

// SettingsSyncService moves backend-authoritative fields between the settings
// backend and the local record. None of its operations report failure to the
// caller: outcomes go to the configured events.Sink only.
type SettingsSyncService interface {
	// Fields lists the per-field backend-authoritative setting names.
	Fields() []string
	// Pull fetches one field and applies it locally. It blocks until done.
	Pull(ctx context.Context, field string)
	// PullAll starts one concurrent pull per field and returns immediately.
	PullAll(ctx context.Context)
	// Push sends a value in the background; nothing is applied locally.
	Push(ctx context.Context, field string, value any)
	// SyncVisionSettings fetches the composite model selection, applies the
	// vision fields and rewrites the legacy chaining record. It blocks.
	SyncVisionSettings(ctx context.Context)
	// PushVisionSettings sends the local vision fields in the background.
	PushVisionSettings(ctx context.Context)
	// Wait blocks until every background task started so far has finished.
	Wait()
}

type backendField struct {
	pull func(ctx context.Context) (any, error)
	push func(ctx context.Context, value any) error
}

type settingsSyncService struct {
	settings SettingsService
	remote   RemoteSettings
	sink     events.Sink
	fields   map[string]backendField
	wg       sync.WaitGroup
}

func NewSettingsSyncService(settings SettingsService, remote RemoteSettings, sink events.Sink) SettingsSyncService {
	if sink == nil {
		sink = func(events.SyncEvent) {}
	}
	s := &settingsSyncService{
		settings: settings,
		remote:   remote,
		sink:     sink,
	}
	s.fields = map[string]backendField{
		models.KeyShowWelcomeTiles: {
			pull: func(ctx context.Context) (any, error) { return remote.ShowWelcomeTiles(ctx) },
			push: func(ctx context.Context, value any) error {
				show, ok := value.(bool)
				if !ok {
					return fmt.Errorf("%w: %s wants a boolean, got %T", ErrInvalidValue, models.KeyShowWelcomeTiles, value)
				}
				return remote.SetShowWelcomeTiles(ctx, show)
			},
		},
		models.KeyShowTopBar: {
			pull: func(ctx context.Context) (any, error) { return remote.ShowTopBar(ctx) },
			push: func(ctx context.Context, value any) error {
				show, ok := value.(bool)
				if !ok {
					return fmt.Errorf("%w: %s wants a boolean, got %T", ErrInvalidValue, models.KeyShowTopBar, value)
				}
				return remote.SetShowTopBar(ctx, show)
			},
		},
		models.KeyUITheme: {
			pull: func(ctx context.Context) (any, error) { return remote.UITheme(ctx) },
			push: func(ctx context.Context, value any) error {
				theme, ok := value.(string)
				if !ok {
					return fmt.Errorf("%w: %s wants a string, got %T", ErrInvalidValue, models.KeyUITheme, value)
				}
				return remote.SetUITheme(ctx, theme)
			},
		},
	}
	return s
}

func (s *settingsSyncService) Fields() []string {
	out := make([]string, 0, len(s.fields))
	for name := range s.fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *settingsSyncService) Pull(ctx context.Context, field string) {
	s.sink(s.pull(ctx, field))
}

func (s *settingsSyncService) pull(ctx context.Context, field string) events.SyncEvent {
	start := time.Now()
	f, ok := s.fields[field]
	if !ok {
		return timed(events.NewFailure(events.OpPull, field, fmt.Errorf("%w: %q", ErrUnknownField, field)), start)
	}
	value, err := f.pull(ctx)
	if err != nil {
		return timed(events.NewFailure(events.OpPull, field, err), start)
	}
	s.settings.ApplyRemote(models.Settings{field: value})
	return timed(events.NewSuccess(events.OpPull, field, value), start)
}

func (s *settingsSyncService) PullAll(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, field := range s.Fields() {
		s.goTask(func() { s.Pull(ctx, field) })
	}
}

func (s *settingsSyncService) Push(ctx context.Context, field string, value any) {
	ctx = context.WithoutCancel(ctx)
	s.goTask(func() {
		start := time.Now()
		f, ok := s.fields[field]
		if !ok {
			s.sink(timed(events.NewFailure(events.OpPush, field, fmt.Errorf("%w: %q", ErrUnknownField, field)), start))
			return
		}
		if err := f.push(ctx, value); err != nil {
			s.sink(timed(events.NewFailure(events.OpPush, field, err), start))
			return
		}
		s.sink(timed(events.NewSuccess(events.OpPush, field, value), start))
	})
}

const visionField = "visionSettings"

func (s *settingsSyncService) SyncVisionSettings(ctx context.Context) {
	start := time.Now()
	sel, err := s.remote.ModelSelection(ctx)
	if err != nil {
		s.sink(timed(events.NewFailure(events.OpBatchPull, visionField, err), start))
		return
	}
	if sel == nil {
		s.sink(timed(events.NewWarn(events.OpBatchPull, visionField, "backend returned no model selection"), start))
		return
	}

	applied := models.Settings{}
	if sel.VisionModel != "" {
		applied[models.KeyPreferredVisionModel] = sel.VisionModel
	}
	if sel.VisionChainingEnabled != nil {
		applied[models.KeyVisionChainEnabled] = *sel.VisionChainingEnabled
	}
	s.settings.ApplyRemote(applied)

	// the legacy record mirrors the backend so both locations agree from now on
	chaining := models.ChainingSettings{ShowIntermediateOutput: false}
	if sel.VisionChainingEnabled != nil {
		enabled := *sel.VisionChainingEnabled
		chaining.Enabled = &enabled
	}
	if sel.VisionModel != "" {
		model := sel.VisionModel
		chaining.VisionModel = &model
	}
	s.settings.WriteChaining(chaining)

	s.sink(timed(events.NewSuccess(events.OpBatchPull, visionField, map[string]any(applied)), start))
}

func (s *settingsSyncService) PushVisionSettings(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	snapshot := s.settings.Snapshot()
	s.goTask(func() {
		start := time.Now()
		// the composite carries unrelated fields, so start from the backend copy
		current, err := s.remote.ModelSelection(ctx)
		if err != nil {
			s.sink(timed(events.NewFailure(events.OpBatchPush, visionField, err), start))
			return
		}
		if current == nil {
			current = &models.ModelSelectionSettings{}
		}
		next := *current
		if model, ok := snapshot.String(models.KeyPreferredVisionModel); ok {
			next.VisionModel = model
		}
		if enabled, ok := snapshot.Bool(models.KeyVisionChainEnabled); ok {
			next.VisionChainingEnabled = &enabled
		}
		if _, err := s.remote.UpdateModelSelection(ctx, next); err != nil {
			s.sink(timed(events.NewFailure(events.OpBatchPush, visionField, err), start))
			return
		}
		s.sink(timed(events.NewSuccess(events.OpBatchPush, visionField, next.VisionModel), start))
	})
}

func (s *settingsSyncService) Wait() {
	s.wg.Wait()
}

func (s *settingsSyncService) goTask(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func timed(evt events.SyncEvent, start time.Time) events.SyncEvent {
	evt.Duration = time.Since(start)
	return evt
}
