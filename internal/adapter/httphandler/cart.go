package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
)

// POST v1/cart/items JSON signed by consumer (201 Created, 400, 403, 404)
// GET v1/cart?consumer= (200 OK)

type CartHandler struct {
	service port.CartService
}

func RegisterCart(
	mux *http.ServeMux, authorizer port.Authorizer, svc port.CartService,
) {
	h := CartHandler{svc}
	mux.Handle("POST /v1/cart/items",
		RequireIdentity(http.HandlerFunc(h.AddToCart), authorizer))
	mux.HandleFunc("GET /v1/cart", h.FetchCartCatalog)
}

func (h CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddToCart"
	log := slog.With("op", op)

	consumer, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "identity required", http.StatusForbidden)
		return
	}

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	seller, err := domain.ParseIdentity(req.Seller)
	if err != nil {
		http.Error(w, "invalid seller identity", http.StatusBadRequest)
		return
	}

	addr, err := h.service.AddToCart(
		r.Context(), consumer,
		req.ProductName, req.Quantity, seller, req.ImageURL, req.Price,
	)
	if err != nil {
		log.Warn("failed to add to cart", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr.String()})
}

func (h CartHandler) FetchCartCatalog(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.FetchCartCatalog"
	log := slog.With("op", op)

	consumer, err := identityQuery(r, "consumer")
	if err != nil {
		http.Error(w, "invalid consumer identity", http.StatusBadRequest)
		return
	}

	catalog, carts, err := h.service.FetchCartCatalog(r.Context(), consumer)
	if err != nil {
		log.Warn("failed to fetch cart catalog", "err", err)
		writeDomainError(w, err)
		return
	}

	view := CartCatalog{
		CartList:    make([]Cart, 0, len(carts)),
		TotalAmount: catalog.TotalAmount,
	}
	for _, c := range carts {
		view.CartList = append(view.CartList, toCartView(c))
	}
	writeJSON(w, http.StatusOK, view)
}
