package http

import (
	"errors"
	"net/http"

	"ledgerly/internal/codec"
	"ledgerly/internal/insight"
	"ledgerly/internal/ledger"
	"ledgerly/internal/log"
	"ledgerly/internal/services"
)

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	var (
		validation *services.ValidationError
		decode     *codec.DecodeError
		shape      *codec.ShapeValidationError
		row        *codec.RowParseError
		remote     *insight.RemoteCallError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &shape):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &decode), errors.As(err, &row),
		errors.Is(err, codec.ErrEmptyImport), errors.Is(err, codec.ErrUnknownFormat),
		errors.Is(err, ledger.ErrUnknownImportMode),
		errors.Is(err, errUnsupportedFileType), errors.Is(err, errEmptyBody),
		errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, codec.ErrNothingToExport), errors.Is(err, insight.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, insight.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &remote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and sends it as an error response with a notification
// titled title. Internal errors are not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := statusFor(err)
	logger := log.FromContext(r.Context())

	message := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusServiceUnavailable {
		logger.ErrorContext(r.Context(), title, log.FieldError, err, log.FieldStatusCode, status)
		message = "An unexpected error occurred."
	} else {
		logger.WarnContext(r.Context(), title, log.FieldError, err, log.FieldStatusCode, status)
	}

	ErrorResponse(status, title, message).Write(w)
}
