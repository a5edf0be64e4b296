package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
	"github.com/niksmo/escrow-market/pkg/locator"
)

// POST v1/payments JSON signed by payer (200 OK, idempotent)
// GET v1/payments?payer= (200 OK, 404)

type PaymentHandler struct {
	service port.PaymentService
}

func RegisterPayment(
	mux *http.ServeMux, authorizer port.Authorizer, svc port.PaymentService,
) {
	h := PaymentHandler{svc}
	mux.Handle("POST /v1/payments",
		RequireIdentity(http.HandlerFunc(h.CreatePayment), authorizer))
	mux.HandleFunc("GET /v1/payments", h.FetchPayment)
}

func (h PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	const op = "PaymentHandler.CreatePayment"
	log := slog.With("op", op)

	payer, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "identity required", http.StatusForbidden)
		return
	}

	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	var productRef locator.Address
	if req.ProductRef != "" {
		var err error
		productRef, err = locator.ParseAddress(req.ProductRef)
		if err != nil {
			http.Error(w, "invalid product reference", http.StatusBadRequest)
			return
		}
	}

	addr, payment, err := h.service.CreatePayment(
		r.Context(), payer,
		req.Amount, productRef,
		domain.PaymentMethod(req.Method), req.TxReference,
	)
	if err != nil {
		log.Warn("failed to create payment", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Address string  `json:"address"`
		Payment Payment `json:"payment"`
	}{addr.String(), toPaymentView(payment)})
}

func (h PaymentHandler) FetchPayment(w http.ResponseWriter, r *http.Request) {
	const op = "PaymentHandler.FetchPayment"
	log := slog.With("op", op)

	payer, err := identityQuery(r, "payer")
	if err != nil {
		http.Error(w, "invalid payer identity", http.StatusBadRequest)
		return
	}

	payment, err := h.service.FetchPayment(r.Context(), payer)
	if err != nil {
		log.Warn("failed to fetch payment", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentView(payment))
}
