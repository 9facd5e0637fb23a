package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateSessionID creates a human-readable id for a simulation session.
// Format: {scenario}-{8charHexUUID}
//
// Example:
//   - Input: scenarioPath="scenarios/repair-demo.yaml"
//   - Output: "repair-demo-a3f8e2b1"
func GenerateSessionID(scenarioPath string) string {
	name := scenarioName(scenarioPath)
	if name == "" {
		name = "session"
	}
	return name + "-" + generateShortUUID()
}

// scenarioName strips directories and the extension from a scenario path
//   - "scenarios/repair-demo.yaml" -> "repair-demo"
//   - "repair.yml" -> "repair"
//   - "" -> ""
func scenarioName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndex(path, "."); i > 0 {
		path = path[:i]
	}
	return path
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
