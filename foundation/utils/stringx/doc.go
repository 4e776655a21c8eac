// Package stringx provides the small set of string helpers shared by the
// calendar engine, the CLI and the terminal UI: blank checks and rune-aware
// padding for fixed-width date fields and calendar grids.
//
// Package: stringx
// Title: String Utilities
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-10-19 v0.2.0: Reduced to padding and blank helpers
package stringx
