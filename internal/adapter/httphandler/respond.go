package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/escrow-market/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body",
			"op", "httphandler.writeJSON", "err", err)
	}
}

// writeDomainError maps the settlement error taxonomy onto HTTP
// status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateProduct),
		errors.Is(err, domain.ErrRecordExists),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrCatalogFull):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrRecordNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrPaymentRequired),
		errors.Is(err, domain.ErrPaymentNotConfirmed),
		errors.Is(err, domain.ErrInsufficientFunds):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, domain.ErrAuthorizationFailed):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrOverflow),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidDivision),
		errors.Is(err, domain.ErrInvalidIdentity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func identityQuery(r *http.Request, param string) (domain.Identity, error) {
	return domain.ParseIdentity(r.URL.Query().Get(param))
}
