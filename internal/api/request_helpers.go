package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/procknow/internal/api/shared"
	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/service"
)

// decodeAndValidate decodes the JSON body into v and validates it. It
// writes a 400 response and returns false when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		log.Debug("invalid request body", slog.String("error", err.Error()))
		message := "Invalid request format"
		if MapErrorToStatusCode(err) == http.StatusBadRequest {
			message = GetSafeErrorMessage(err)
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, message, err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// getPathParam extracts a required URL path parameter.
func getPathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if value == "" {
		return "", domain.NewValidationError(name, "is required", domain.ErrValidation)
	}
	return value, nil
}

// parseStatsQuery reads the sort and asc query parameters. Rows are sorted
// descending unless asc is true.
func parseStatsQuery(r *http.Request) (service.SortKey, bool, error) {
	q := r.URL.Query()

	key, err := service.ParseSortKey(q.Get("sort"))
	if err != nil {
		return "", false, err
	}

	desc := true
	if raw := q.Get("asc"); raw != "" {
		asc, err := strconv.ParseBool(raw)
		if err != nil {
			return "", false, domain.NewValidationError("asc", "must be a boolean", domain.ErrValidation)
		}
		desc = !asc
	}
	return key, desc, nil
}
