package handlers

import (
	stderrors "errors"

	"sakila-dashboard/internal/errors"
	"sakila-dashboard/internal/geo"
	"sakila-dashboard/internal/models"
	"sakila-dashboard/internal/services"
)

// toAppError maps pipeline failures onto response codes. Each failure is
// local to the request that produced it.
func toAppError(err error) *errors.AppError {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}

	var ve *validationError
	switch {
	case stderrors.As(err, &ve):
		return errors.ValidationWrap(err, ve.Error())
	case stderrors.Is(err, models.ErrUnknownMetric):
		return errors.ValidationWrap(err, "Unknown metric")
	case stderrors.Is(err, geo.ErrUnknownView):
		return errors.ValidationWrap(err, "Unknown view")
	case stderrors.Is(err, services.ErrDatasetUnavailable):
		return errors.ServiceUnavailableWrap(err, "Dataset is unavailable")
	case stderrors.Is(err, services.ErrMalformedRecord):
		return errors.InternalWrap(err, "Dataset contains a malformed record")
	default:
		return errors.InternalWrap(err, "An unexpected error occurred")
	}
}
