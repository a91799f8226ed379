package adaptor

import (
	"context"
	"errors"
	"net/http"

	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service error kinds onto the response envelope.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Any("fields", validationErr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidInput):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrLockedOut):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrUpstream):
		log.Warn(operation+" failed - upstream", zap.Error(err))
		utils.ResponseBadGateway(w, "Metadata provider request failed")

	case errors.Is(err, usecase.ErrUnavailable):
		log.Warn(operation+" failed - unavailable", zap.Error(err))
		utils.ResponseUnavailable(w, err.Error())

	case errors.Is(err, context.Canceled):
		// client went away, nobody is reading the response
		log.Info(operation+" cancelled by client")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
