package models

import "encoding/json"

// Storage keys shared by the version gate and the settings aggregator.
const (
	SettingsStorageKey = "fleet-navigator-settings"
	VersionStorageKey  = "fleet-navigator-version"
	ChainingStorageKey = "chainingSettings"

	// SelectedModelStorageKey caches the last chat model and survives
	// version purges.
	SelectedModelStorageKey = "fleet-navigator-selected-model"
)

// Setting names of the settings record.
const (
	KeyLanguage              = "language"
	KeyTheme                 = "theme"
	KeyUITheme               = "uiTheme"
	KeyFontSize              = "fontSize"
	KeySidebarCollapsed      = "sidebarCollapsed"
	KeyShowWelcomeTiles      = "showWelcomeTiles"
	KeyShowTopBar            = "showTopBar"
	KeyMarkdownEnabled       = "markdownEnabled"
	KeyStreamingEnabled      = "streamingEnabled"
	KeyTemperature           = "temperature"
	KeyTopP                  = "topP"
	KeyTopK                  = "topK"
	KeyRepeatPenalty         = "repeatPenalty"
	KeyContextLength         = "contextLength"
	KeyMaxTokens             = "maxTokens"
	KeyAutoSelectVisionModel = "autoSelectVisionModel"
	KeyPreferredVisionModel  = "preferredVisionModel"
	KeyVisionChainEnabled    = "visionChainEnabled"
	KeyCPUOnly               = "cpuOnly"
	KeyDebugMode             = "debugMode"
)

// DefaultUITheme is used when the backend answers with an empty theme.
const DefaultUITheme = "tech-dark"

// Settings is the flat settings record. Values are strings, float64 numbers
// or booleans so that a record read back from JSON compares equal to the one
// that was written.
type Settings map[string]any

// DefaultSettings returns a fresh copy of the compiled-in defaults.
func DefaultSettings() Settings {
	return Settings{
		// general
		KeyLanguage:         "de",
		KeyTheme:            "auto",
		KeyUITheme:          "default",
		KeyFontSize:         "medium",
		KeySidebarCollapsed: false,
		KeyShowWelcomeTiles: false, // stays false until the backend confirms
		KeyShowTopBar:       true,

		// generation
		KeyMarkdownEnabled:  true,
		KeyStreamingEnabled: true,
		KeyTemperature:      0.7,
		KeyTopP:             0.9,
		KeyTopK:             40.0,
		KeyRepeatPenalty:    1.18,
		KeyContextLength:    32768.0,
		KeyMaxTokens:        32768.0,

		// vision
		KeyAutoSelectVisionModel: true,
		KeyPreferredVisionModel:  "llava:7b",
		KeyVisionChainEnabled:    true,

		KeyCPUOnly:   false,
		KeyDebugMode: false,
	}
}

// Clone returns a shallow copy. Values are scalars so shallow is enough.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge overwrites fields of s with every field of partial.
func (s Settings) Merge(partial Settings) {
	for k, v := range partial {
		s[k] = v
	}
}

func (s Settings) Bool(key string) (bool, bool) {
	v, ok := s[key].(bool)
	return v, ok
}

func (s Settings) String(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok
}

// Float returns numeric fields as float64, accepting the integer kinds
// callers commonly pass to Set.
func (s Settings) Float(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// NormalizeValue converts integer kinds to float64 so in-memory values match
// what a JSON round trip would produce.
func NormalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case uint:
		return float64(n)
	default:
		return v
	}
}

// DecodeSettings parses a stored record.
func DecodeSettings(raw string) (Settings, error) {
	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	if s == nil {
		return Settings{}, nil
	}
	return s, nil
}

// Encode serializes the record for storage.
func (s Settings) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
