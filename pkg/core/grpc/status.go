// ============================================================================
// tempus - Calendar Engine
// ============================================================================
//
// Package:     grpc
// Description: Mapping between structured error codes and gRPC status codes
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package grpc

import (
	"context"
	"errors"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusCode returns the gRPC code for an error code
func StatusCode(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeNotFound, mdwerror.CodeUnknownLocale:
		return codes.NotFound
	case mdwerror.CodeInvalidInput, mdwerror.CodeValidationFailed, mdwerror.CodeRequiredField,
		mdwerror.CodeInvalidFormat, mdwerror.CodeValueOutOfRange, mdwerror.CodeInvalidDate,
		mdwerror.CodeUnknownUnit, mdwerror.CodeUnknownToken, mdwerror.CodeEmptyRange:
		return codes.InvalidArgument
	case mdwerror.CodeDuplicateEntry:
		return codes.AlreadyExists
	case mdwerror.CodeResourceLocked, mdwerror.CodeInvalidOperation:
		return codes.FailedPrecondition
	case mdwerror.CodeTimeout:
		return codes.DeadlineExceeded
	case mdwerror.CodeServiceUnavailable, mdwerror.CodeConnectionFailed, mdwerror.CodeNetworkError:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// ToStatus converts err into a gRPC status error. Status errors and context
// errors keep their meaning.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	var mdwErr *mdwerror.Error
	if errors.As(err, &mdwErr) {
		return status.Error(StatusCode(mdwErr.Code()), mdwErr.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
