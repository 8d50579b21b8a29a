package api

import (
	"errors"
	"net/http"

	"ForecastGate/internal/domain"
	fmetrics "ForecastGate/internal/service/metrics"
	xhttp "ForecastGate/pkg/http"
)

// translateError maps a usecase error onto the transport error returned to the caller.
func translateError(err error) *xhttp.AppError {
	var (
		appErr *xhttp.AppError
		ide    *domain.InsufficientDataError
		mre    *domain.MalformedRecordError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domain.ErrDependencyUnavailable), errors.Is(err, domain.ErrClientNotInitialized):
		return xhttp.ServiceUnavailableError(err.Error()).WithError(err)
	case errors.As(err, &ide):
		return xhttp.BadRequestError("ERR_INSUFFICIENT_DATA", ide.Error()).
			WithField("data_input").
			WithParam("have", ide.Have).
			WithParam("need", ide.Need).
			WithError(err)
	case errors.As(err, &mre):
		return xhttp.BadRequestError("ERR_MALFORMED_RECORD", mre.Error()).
			WithField(mre.FieldPath()).
			WithParam("index", mre.Index).
			WithError(err)
	case errors.Is(err, domain.ErrUnexpectedResult):
		return xhttp.InternalError("ERR_UNEXPECTED_RESULT", err.Error()).WithError(err)
	case errors.Is(err, domain.ErrExternalCall):
		return xhttp.InternalError("ERR_EXTERNAL_CALL", err.Error()).WithError(err)
	default:
		return xhttp.InternalError("", "Something went wrong").WithError(err)
	}
}

func outcome(status int) string {
	switch {
	case status == http.StatusServiceUnavailable:
		return fmetrics.OutcomeUnavailable
	case status >= 400 && status < 500:
		return fmetrics.OutcomeInvalid
	default:
		return fmetrics.OutcomeFailed
	}
}
