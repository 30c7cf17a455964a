package services

import (
	"context"

	"github.com/rs/zerolog"

	"fleetnavigator/internal/events"
	"fleetnavigator/internal/repositories"
)

// ClientServices is built once at startup and handed to every consumer of
// the settings record.
type ClientServices struct {
	Storage  repositories.LocalStorage
	Settings SettingsService
	Sync     SettingsSyncService
	// Gate is the outcome of the first version check.
	Gate GateOutcome
	// Reloaded is set when the first check purged local storage and the
	// client was started over.
	Reloaded bool
}

type ClientOptions struct {
	Storage repositories.LocalStorage
	Version VersionSource
	Remote  RemoteSettings
	// Prefixes and Keep configure the version purge; nil selects the defaults.
	Prefixes []string
	Keep     []string
	Sink     events.Sink
	Log      zerolog.Logger
	// SkipInitialPull leaves backend-authoritative fields at their local values.
	SkipInitialPull bool
}

// StartClient runs the version gate, loads the settings record and starts one
// background pull per backend-authoritative field. It returns as soon as the
// local record is usable; backend values arrive later.
func StartClient(ctx context.Context, opts ClientOptions) *ClientServices {
	log := opts.Log
	gate := NewVersionGateService(opts.Storage, opts.Version, opts.Prefixes, opts.Keep, log)

	outcome := gate.Check(ctx)
	reloaded := false
	if outcome.ReloadRequired {
		// Start over as a fresh page load would. The gate runs before anything
		// reads local storage, so there is no state to discard yet.
		log.Info().Str("version", outcome.Current).Msg("restarting client after version change")
		if again := gate.Check(ctx); again.ReloadRequired {
			log.Warn().Msg("version still differs after purge, continuing")
		}
		reloaded = true
	}

	settings := NewSettingsService(opts.Storage, nil, log)
	sync := NewSettingsSyncService(settings, opts.Remote, opts.Sink)
	if !opts.SkipInitialPull {
		sync.PullAll(ctx)
	}

	return &ClientServices{
		Storage:  opts.Storage,
		Settings: settings,
		Sync:     sync,
		Gate:     outcome,
		Reloaded: reloaded,
	}
}
