// ============================================================================
// tempus - Calendar Engine
// ============================================================================
//
// Package:     version
// Description: Central version management for the engine and its services
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import "github.com/msto63/tempus/foundation/utils/timex"

// Version constants for the tempus components
const (
	// Platform version
	Platform = "1.0.0"

	// Engine is the calendar engine version reported by Engine.Version
	Engine = timex.Version

	// Service versions
	Chronos = "1.0.0"
	Alarm   = "1.0.0"
	CLI     = "1.0.0"
)

// ServiceVersion returns the version for a given component name
func ServiceVersion(name string) string {
	switch name {
	case "engine", "timex":
		return Engine
	case "chronos":
		return Chronos
	case "alarm":
		return Alarm
	case "cli", "tempus":
		return CLI
	default:
		return Platform
	}
}

// Components lists the component names known to ServiceVersion
func Components() []string {
	return []string{"engine", "chronos", "alarm", "cli"}
}
