package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/niksmo/escrow-market/internal/core/port"
)

// POST v1/orders JSON signed by signer (201 Created, 402, 409)
// GET v1/orders?signer= (200 OK, 404)

type OrderHandler struct {
	service port.OrderService
}

func RegisterOrder(
	mux *http.ServeMux, authorizer port.Authorizer, svc port.OrderService,
) {
	h := OrderHandler{svc}
	mux.Handle("POST /v1/orders",
		RequireIdentity(http.HandlerFunc(h.CreateOrder), authorizer))
	mux.HandleFunc("GET /v1/orders", h.FetchOrder)
}

func (h OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrderHandler.CreateOrder"
	log := slog.With("op", op)

	signer, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "identity required", http.StatusForbidden)
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		http.Error(w, "invalid payment id", http.StatusBadRequest)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), signer, paymentID)
	if err != nil {
		log.Warn("failed to create order", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderView(order))
	log.Info("order placed", "signer", signer.String())
}

func (h OrderHandler) FetchOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrderHandler.FetchOrder"
	log := slog.With("op", op)

	signer, err := identityQuery(r, "signer")
	if err != nil {
		http.Error(w, "invalid signer identity", http.StatusBadRequest)
		return
	}

	order, err := h.service.FetchOrder(r.Context(), signer)
	if err != nil {
		log.Warn("failed to fetch order", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderView(order))
}
