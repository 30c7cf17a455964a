package models

import "strings"

var visionKeywords = []string{"llava", "vision", "bakllava", "moondream", "minicpm", "cogvlm"}

// VisionModels lists the vision models offered for selection.
func VisionModels() []string {
	return []string{
		"llava:7b",
		"llava:13b",
		"llava-llama3:latest",
		"minicpm-v:latest",
		"moondream:latest",
		"bakllava:latest",
	}
}

// IsVisionModel reports whether name looks like a vision-capable model.
func IsVisionModel(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, kw := range visionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
