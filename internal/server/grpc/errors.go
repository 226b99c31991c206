package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/questlog/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const msgUserAlreadyRegistered = "User already registered"

// toStatus maps service errors onto gRPC statuses. Messages of client-facing
// errors are sent verbatim because the client shows them to the user.
// Anything unrecognised is logged and reported as internal.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, msgUserAlreadyRegistered)
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, rootMessage(err))
	case errors.Is(err, common.ErrorEmailNotConfirmed):
		return status.Error(codes.FailedPrecondition, common.ErrorEmailNotConfirmed.Error())
	case errors.Is(err, common.ErrorInvalidEmail),
		errors.Is(err, common.ErrorWeakPassword),
		errors.Is(err, common.ErrorDisplayNameSize):
		return status.Error(codes.InvalidArgument, rootMessage(err))
	case errors.Is(err, common.ErrorUnknownProcedure):
		return status.Error(codes.NotFound, common.ErrorUnknownProcedure.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}

// rootMessage returns the message of the first sentinel in err's chain.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		common.ErrorInvalidCredentials,
		common.ErrorUnauthorized,
		common.ErrInvalidToken,
		common.ErrTokenExpired,
		common.ErrTokenRevoked,
		common.ErrRefreshTokenExpired,
		common.ErrorInvalidEmail,
		common.ErrorWeakPassword,
		common.ErrorDisplayNameSize,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
