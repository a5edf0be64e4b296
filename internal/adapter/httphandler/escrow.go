package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
)

// POST v1/escrows JSON signed by owner (201 Created, 402, 409)
// POST v1/escrows/deposit JSON signed by owner (200 OK, 402, 409)
// POST v1/escrows/withdraw JSON signed by owner (200 OK, 409)
// GET v1/escrows?owner= (200 OK, 404)
// POST v1/balances/credit JSON signed by identity (200 OK)
// GET v1/balances?identity= (200 OK)

type EscrowHandler struct {
	service port.EscrowService
}

func RegisterEscrow(
	mux *http.ServeMux, authorizer port.Authorizer, svc port.EscrowService,
) {
	h := EscrowHandler{svc}
	mux.Handle("POST /v1/escrows",
		RequireIdentity(http.HandlerFunc(h.CreateEscrow), authorizer))
	mux.Handle("POST /v1/escrows/deposit",
		RequireIdentity(http.HandlerFunc(h.DepositEscrow), authorizer))
	mux.Handle("POST /v1/escrows/withdraw",
		RequireIdentity(http.HandlerFunc(h.WithdrawEscrow), authorizer))
	mux.HandleFunc("GET /v1/escrows", h.FetchEscrow)
	mux.Handle("POST /v1/balances/credit",
		RequireIdentity(http.HandlerFunc(h.CreditBalance), authorizer))
	mux.HandleFunc("GET /v1/balances", h.FetchBalance)
}

func (h EscrowHandler) CreateEscrow(w http.ResponseWriter, r *http.Request) {
	const op = "EscrowHandler.CreateEscrow"
	log := slog.With("op", op)

	owner, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "identity required", http.StatusForbidden)
		return
	}

	var req CreateEscrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	buyer, err := domain.ParseIdentity(req.Buyer)
	if err != nil {
		http.Error(w, "invalid buyer identity", http.StatusBadRequest)
		return
	}
	seller, err := domain.ParseIdentity(req.Seller)
	if err != nil {
		http.Error(w, "invalid seller identity", http.StatusBadRequest)
		return
	}

	addr, err := h.service.CreateEscrow(
		r.Context(), owner, buyer, seller, req.Amount,
	)
	if err != nil {
		log.Warn("failed to create escrow", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr.String()})
	log.Info("escrow created",
		"owner", owner.String(), "amount", req.Amount)
}

func (h EscrowHandler) DepositEscrow(w http.ResponseWriter, r *http.Request) {
	const op = "EscrowHandler.DepositEscrow"
	log := slog.With("op", op)

	owner, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "identity required", http.StatusForbidden)
		return
	}

	var req EscrowMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	escrow, err := h.service.DepositEscrow(r.Context(), owner, req.Amount)
	if err != nil {
		log.Warn("failed to deposit escrow", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEscrowView(escrow))
}

func (h EscrowHandler) WithdrawEscrow(w http.ResponseWriter, r *http.Request) {
	const op = "EscrowHandler.WithdrawEscrow"
	log := slog.With("op", op)

	owner, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "identity required", http.StatusForbidden)
		return
	}

	var req EscrowMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	escrow, err := h.service.WithdrawEscrow(r.Context(), owner, req.Amount)
	if err != nil {
		log.Warn("failed to withdraw escrow", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEscrowView(escrow))
	log.Info("escrow settled", "owner", owner.String(), "amount", req.Amount)
}

func (h EscrowHandler) FetchEscrow(w http.ResponseWriter, r *http.Request) {
	const op = "EscrowHandler.FetchEscrow"
	log := slog.With("op", op)

	owner, err := identityQuery(r, "owner")
	if err != nil {
		http.Error(w, "invalid owner identity", http.StatusBadRequest)
		return
	}

	escrow, err := h.service.FetchEscrow(r.Context(), owner)
	if err != nil {
		log.Warn("failed to fetch escrow", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEscrowView(escrow))
}

func (h EscrowHandler) CreditBalance(w http.ResponseWriter, r *http.Request) {
	const op = "EscrowHandler.CreditBalance"
	log := slog.With("op", op)

	identity, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "identity required", http.StatusForbidden)
		return
	}

	var req CreditBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if err := h.service.CreditBalance(
		r.Context(), identity, req.Amount,
	); err != nil {
		log.Warn("failed to credit balance", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{Amount: req.Amount})
}

func (h EscrowHandler) FetchBalance(w http.ResponseWriter, r *http.Request) {
	const op = "EscrowHandler.FetchBalance"
	log := slog.With("op", op)

	identity, err := identityQuery(r, "identity")
	if err != nil {
		http.Error(w, "invalid identity", http.StatusBadRequest)
		return
	}

	amount, err := h.service.FetchBalance(r.Context(), identity)
	if err != nil {
		log.Warn("failed to fetch balance", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{Amount: amount})
}
