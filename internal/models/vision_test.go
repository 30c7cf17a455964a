package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVisionModel(t *testing.T) {
	cases := map[string]bool{
		"llava:7b":            true,
		"LLaVA-Llama3:latest": true,
		"minicpm-v:latest":    true,
		"moondream:latest":    true,
		"qwen2.5-vision:7b":   true,
		"qwen2.5-coder:7b":    false,
		"llama3.2:3b":         false,
		"":                    false,
	}
	for name, want := range cases {
		assert.Equal(t, want, IsVisionModel(name), name)
	}
}

func TestVisionModelsAreVisionCapable(t *testing.T) {
	for _, name := range VisionModels() {
		assert.True(t, IsVisionModel(name), name)
	}
}
