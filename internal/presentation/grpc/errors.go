package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
)

// toStatus maps the error taxonomy onto gRPC codes. Unclassified errors are
// logged and hidden behind a generic message.
func toStatus(ctx context.Context, logger *slog.Logger, method string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case apperr.IsValidation(err):
		code = codes.InvalidArgument
	case apperr.IsAuthorization(err):
		code = codes.PermissionDenied
	case apperr.IsNotFound(err):
		code = codes.NotFound
	case apperr.IsState(err):
		code = codes.FailedPrecondition
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		logger.ErrorContext(ctx, "handler error", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
