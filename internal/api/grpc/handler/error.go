package handler

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
)

func handleError(err error) error {
	if apiErr, ok := apierrors.As(err); ok {
		return status.Error(apiErr.GRPCCode, apiErr.Message)
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codes.Internal, "internal server error")
}

// fail logs a failed call and converts err into a gRPC status. Caller
// mistakes are logged at debug level, everything else at error level.
func fail(log *logger.Logger, msg string, err error, attrs ...any) error {
	attrs = append(attrs, "error", err.Error())
	if apiErr, ok := apierrors.As(err); ok && apiErr.Kind != apierrors.KindUpstreamUnavailable {
		log.Debug(msg, attrs...)
	} else {
		log.Error(msg, attrs...)
	}
	return handleError(err)
}
