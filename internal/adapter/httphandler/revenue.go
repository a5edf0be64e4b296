package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/escrow-market/internal/core/port"
)

// GET v1/revenue?seller= (200 OK) reads the settled revenue projection.

type RevenueHandler struct {
	viewer port.RevenueViewer
}

func RegisterRevenue(mux *http.ServeMux, viewer port.RevenueViewer) {
	h := RevenueHandler{viewer}
	mux.HandleFunc("GET /v1/revenue", h.SellerRevenue)
}

func (h RevenueHandler) SellerRevenue(w http.ResponseWriter, r *http.Request) {
	const op = "RevenueHandler.SellerRevenue"
	log := slog.With("op", op)

	seller, err := identityQuery(r, "seller")
	if err != nil {
		http.Error(w, "invalid seller identity", http.StatusBadRequest)
		return
	}

	amount, err := h.viewer.SellerRevenue(seller)
	if err != nil {
		log.Error("failed to read revenue view", "err", err)
		http.Error(w, "revenue view unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, RevenueResponse{
		Seller: seller.String(),
		Amount: amount,
	})
}
