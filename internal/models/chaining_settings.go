package models

import (
	"encoding/json"
	"fmt"
)

// ChainingSettings is the legacy record kept under ChainingStorageKey. It
// overlaps KeyVisionChainEnabled and KeyPreferredVisionModel of the main
// record. Nil fields were absent in storage.
type ChainingSettings struct {
	Enabled                *bool   `json:"enabled,omitempty"`
	VisionModel            *string `json:"visionModel,omitempty"`
	ShowIntermediateOutput bool    `json:"showIntermediateOutput"`
}

// DecodeChainingSettings parses the legacy record. JSON null is rejected so
// a cleared record is not mistaken for an empty override.
func DecodeChainingSettings(raw string) (*ChainingSettings, error) {
	var c *ChainingSettings
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("chaining settings: null record")
	}
	return c, nil
}

// Overlay returns the main-record fields this record overrides.
func (c ChainingSettings) Overlay() Settings {
	out := Settings{}
	if c.Enabled != nil {
		out[KeyVisionChainEnabled] = *c.Enabled
	}
	if c.VisionModel != nil {
		out[KeyPreferredVisionModel] = *c.VisionModel
	}
	return out
}

func (c ChainingSettings) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
