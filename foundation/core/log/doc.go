// Package log provides structured logging for tempus.
//
// Package: log
// Title: tempus Structured Logging
// Description: Structured logger with levels, persistent context fields,
//              request IDs, JSON/text/console formatters and operation timers.
//              Logging an *mdwerror.Error picks the level from its severity.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Removed async buffering, user/correlation IDs and logfmt output
//
// Usage:
//   logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText}).
//     WithField("component", "engine")
//
//   logger.Info("locale switched", log.Fields{"locale": "ru_RU"})
//
//   timer := logger.StartTimer("generate")
//   // ... enumerate dates
//   timer.Stop()
package log
