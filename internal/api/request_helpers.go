package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Pr0gger1/bank-api/internal/api/middleware"
	"github.com/Pr0gger1/bank-api/internal/api/shared"
	"github.com/Pr0gger1/bank-api/internal/domain"
	"github.com/Pr0gger1/bank-api/internal/store"
)

// getCaller extracts the authenticated caller from the request context,
// writing an Unauthorized response if it is missing.
func getCaller(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	caller, ok := middleware.GetUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return caller, true
}

// getPathUUID extracts and parses a UUID path parameter, writing a Bad
// Request response if it is missing or malformed.
func getPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing "+paramName)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+paramName)
		return uuid.Nil, false
	}

	return id, true
}

// getPageParams reads the page and size query parameters, clamped to the
// supported bounds. Unparseable values fall back to the defaults.
func getPageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil {
		size = store.DefaultPageSize
	}
	return store.ClampPage(page, size)
}

// decodeAndValidate decodes the JSON body into v and validates it,
// writing a Bad Request response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}
	return true
}
