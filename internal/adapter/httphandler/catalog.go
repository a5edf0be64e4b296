package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
)

// POST v1/products JSON signed by seller (201 Created, 400, 403, 409)
// POST v1/products/restock JSON signed by seller (200 OK, 404)
// GET v1/products?seller= (200 OK)
// GET v1/product?seller=&name= (200 OK, 404)

type CatalogHandler struct {
	service port.CatalogService
}

func RegisterCatalog(
	mux *http.ServeMux, authorizer port.Authorizer, svc port.CatalogService,
) {
	h := CatalogHandler{svc}
	mux.Handle("POST /v1/products",
		RequireIdentity(http.HandlerFunc(h.CreateProduct), authorizer))
	mux.Handle("POST /v1/products/restock",
		RequireIdentity(http.HandlerFunc(h.RestockProduct), authorizer))
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/product", h.FetchProduct)
}

func (h CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.CreateProduct"
	log := slog.With("op", op)

	seller, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "identity required", http.StatusForbidden)
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	addr, err := h.service.CreateProduct(
		r.Context(), seller,
		req.Name, req.Description, req.Price,
		domain.Category(req.Category), domain.Division(req.Division),
		req.SellerName, req.ImageURL,
	)
	if err != nil {
		log.Warn("failed to create product", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr.String()})
	log.Info("product created", "seller", seller.String(), "name", req.Name)
}

func (h CatalogHandler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.RestockProduct"
	log := slog.With("op", op)

	seller, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "identity required", http.StatusForbidden)
		return
	}

	var req RestockProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	product, err := h.service.RestockProduct(
		r.Context(), seller, req.Name,
		req.Quantity, domain.Stock(req.StockStatus),
	)
	if err != nil {
		log.Warn("failed to restock product", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductView(product))
}

func (h CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ListProducts"
	log := slog.With("op", op)

	seller, err := identityQuery(r, "seller")
	if err != nil {
		http.Error(w, "invalid seller identity", http.StatusBadRequest)
		return
	}

	products, err := h.service.ListProducts(r.Context(), seller)
	if err != nil {
		log.Error("failed to list products", "err", err)
		writeDomainError(w, err)
		return
	}

	views := make([]Product, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h CatalogHandler) FetchProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.FetchProduct"
	log := slog.With("op", op)

	seller, err := identityQuery(r, "seller")
	if err != nil {
		http.Error(w, "invalid seller identity", http.StatusBadRequest)
		return
	}

	product, err := h.service.FetchProduct(
		r.Context(), seller, r.URL.Query().Get("name"),
	)
	if err != nil {
		log.Warn("failed to fetch product", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductView(product))
}
