// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rai-openclaw/mission-control/internal/api/response"
	"github.com/rai-openclaw/mission-control/internal/validation"
)

// ValidateSymbolMiddleware validates that the symbol URL parameter is present
// and well-formed. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.Route("/{symbol}", func(r chi.Router) {
//	    r.Use(middleware.ValidateSymbolMiddleware)
//	    r.Get("/", handler.History)
//	})
func ValidateSymbolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		if err := validation.ValidateSymbol(symbol); err != nil {
			response.RespondError(w, http.StatusBadRequest, "valid symbol is required", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
