package models

// ModelSelectionSettings is the composite object served by
// /api/settings/model-selection. VisionChainingEnabled is a pointer so the
// client can tell an omitted field from false.
type ModelSelectionSettings struct {
	Enabled                      bool   `json:"enabled"`
	CodeModel                    string `json:"codeModel"`
	FastModel                    string `json:"fastModel"`
	VisionModel                  string `json:"visionModel"`
	DefaultModel                 string `json:"defaultModel"`
	VisionChainingEnabled        *bool  `json:"visionChainingEnabled,omitempty"`
	VisionChainingSmartSelection bool   `json:"visionChainingSmartSelection"`
}

// VersionInfo is the body of /api/system/version.
type VersionInfo struct {
	Version    string `json:"version"`
	BuildTime  string `json:"buildTime,omitempty"`
	ServerTime int64  `json:"serverTime,omitempty"`
}
