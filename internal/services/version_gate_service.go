package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"fleetnavigator/internal/models"
	"fleetnavigator/internal/repositories"
)

// Default purge configuration for version changes.
var (
	DefaultPurgePrefixes = []string{"fleet-navigator", "chaining"}
	DefaultPurgeKeep     = []string{"fleet-navigator-chat-cache", models.SelectedModelStorageKey}
)

// VersionSource yields the version marker of the running build.
type VersionSource interface {
	CurrentVersion(ctx context.Context) (string, error)
}

// StaticVersion is a marker fixed at build time.
type StaticVersion string

func (v StaticVersion) CurrentVersion(context.Context) (string, error) {
	return string(v), nil
}

// GateOutcome describes what the version gate did.
type GateOutcome struct {
	Previous string
	Current  string
	// FirstRun is set when no marker was stored yet.
	FirstRun bool
	// Skipped is set when the check could not run; state was left alone.
	Skipped bool
	// ReloadRequired is set after a purge. Nothing built from local storage
	// before the purge may be used.
	ReloadRequired bool
	Purged         []string
}

type VersionGateService interface {
	Check(ctx context.Context) GateOutcome
}

type versionGateService struct {
	storage  repositories.LocalStorage
	source   VersionSource
	prefixes []string
	keep     map[string]struct{}
	log      zerolog.Logger
}

func NewVersionGateService(storage repositories.LocalStorage, source VersionSource, prefixes, keep []string, log zerolog.Logger) VersionGateService {
	if prefixes == nil {
		prefixes = DefaultPurgePrefixes
	}
	if keep == nil {
		keep = DefaultPurgeKeep
	}
	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}
	return &versionGateService{
		storage:  storage,
		source:   source,
		prefixes: prefixes,
		keep:     keepSet,
		log:      log,
	}
}

// Check compares the stored marker with the current one and purges
// application keys on a mismatch. It never fails: when either marker cannot be
// read the gate behaves as if the versions matched.
func (s *versionGateService) Check(ctx context.Context) GateOutcome {
	current, err := s.source.CurrentVersion(ctx)
	if err != nil || current == "" {
		s.log.Warn().Err(err).Msg("version check skipped: current version unavailable")
		return GateOutcome{Skipped: true}
	}

	stored, ok, err := s.storage.GetItem(models.VersionStorageKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("version check skipped: stored version unreadable")
		return GateOutcome{Current: current, Skipped: true}
	}

	outcome := GateOutcome{Previous: stored, Current: current}
	switch {
	case !ok:
		outcome.FirstRun = true
		s.storeVersion(current)
		s.log.Info().Str("version", current).Msg("version check: first run")
		return outcome
	case stored == current:
		s.log.Debug().Str("version", current).Msg("version check passed")
		return outcome
	}

	s.log.Info().Str("stored", stored).Str("current", current).Msg("version changed, clearing local storage")

	keys, err := s.storage.Keys()
	if err != nil {
		s.log.Warn().Err(err).Msg("version purge: cannot list keys")
	}
	for _, key := range keys {
		if !s.purgeable(key) {
			continue
		}
		if err := s.storage.RemoveItem(key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("version purge: cannot remove key")
			continue
		}
		outcome.Purged = append(outcome.Purged, key)
	}

	s.storeVersion(current)
	outcome.ReloadRequired = true
	s.log.Info().Strs("purged", outcome.Purged).Str("version", current).Msg("local storage cleared, reload required")
	return outcome
}

func (s *versionGateService) purgeable(key string) bool {
	if _, keep := s.keep[key]; keep {
		return false
	}
	for _, p := range s.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func (s *versionGateService) storeVersion(version string) {
	if err := s.storage.SetItem(models.VersionStorageKey, version); err != nil {
		s.log.Warn().Err(err).Msg("cannot store version marker")
	}
}
