// Package error provides structured errors for the tempus calendar platform.
//
// Package: error
// Title: tempus Error Handling
// Description: Structured error type with codes, severity, operation names and
//              key/value details. Used by every layer above the calendar engine
//              (configuration, locale loading, alarm storage, gRPC and CLI).
//              The engine itself reports absence through ok-results and only
//              these outer layers turn absence into *Error values.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Calendar codes, dropped TCOL and auth codes
//
// Usage:
//   import mdwerror "github.com/msto63/tempus/foundation/core/error"
//
//   err := mdwerror.New("cannot parse date").
//     WithCode(mdwerror.CodeInvalidDate).
//     WithOperation("service.Parse").
//     WithDetail("input", s)
//
//   if mdwerror.HasCode(err, mdwerror.CodeInvalidDate) {
//     // map to InvalidArgument
//   }
package error
