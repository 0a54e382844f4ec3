package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/procknow/internal/api/shared"
	"github.com/phrazzld/procknow/internal/deck"
	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/service"
	"github.com/phrazzld/procknow/internal/session"
	"github.com/phrazzld/procknow/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrNoSession),
		errors.Is(err, deck.ErrUnknownFolder),
		errors.Is(err, deck.ErrUnknownTopic),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Session state conflicts
	case errors.Is(err, session.ErrNoTopic),
		errors.Is(err, session.ErrNoCurrentCard),
		errors.Is(err, session.ErrVerdictPending),
		errors.Is(err, session.ErrNoVerdictPending),
		errors.Is(err, session.ErrHintUnavailable):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrInvalidSortKey),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, deck.ErrInvalidName),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that does not
// leak internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, service.ErrNoSession):
		return "No study session has been started"
	case errors.Is(err, deck.ErrUnknownFolder):
		return "Folder not found"
	case errors.Is(err, deck.ErrUnknownTopic):
		return "Topic not found"
	case errors.Is(err, session.ErrNoTopic):
		return "No topic loaded"
	case errors.Is(err, session.ErrNoCurrentCard):
		return "No card is being shown"
	case errors.Is(err, session.ErrVerdictPending):
		return "Accept or override the proposed verdict first"
	case errors.Is(err, session.ErrNoVerdictPending):
		return "No answer has been submitted"
	case errors.Is(err, session.ErrHintUnavailable):
		return "No hint available"
	case errors.Is(err, service.ErrInvalidSortKey):
		return "Invalid sort key"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, deck.ErrInvalidName):
		return "Invalid request"
	case errors.Is(err, store.ErrUnavailable),
		errors.Is(err, store.ErrTransactionFailed):
		return "Failed to save progress"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "max":
		return "too long"
	case "excludes":
		return "contains a forbidden character"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. fallback, when set,
// replaces the generic message of unexpected server errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" && message == "An unexpected error occurred" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
