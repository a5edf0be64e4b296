package httphandler

import (
	"github.com/niksmo/escrow-market/internal/core/domain"
)

type (
	CreateProductRequest struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Price       uint64 `json:"price"`
		Category    string `json:"category"`
		Division    string `json:"division"`
		SellerName  string `json:"seller_name"`
		ImageURL    string `json:"image_url"`
	}

	RestockProductRequest struct {
		Name        string `json:"name"`
		Quantity    uint32 `json:"quantity"`
		StockStatus string `json:"stock_status"`
	}

	Product struct {
		ProductID   string  `json:"product_id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       uint64  `json:"price"`
		Category    string  `json:"category"`
		Division    string  `json:"division"`
		SellerName  string  `json:"seller_name"`
		Seller      string  `json:"seller"`
		ImageURL    string  `json:"image_url"`
		Quantity    uint32  `json:"quantity"`
		Rating      float32 `json:"rating"`
		StockStatus string  `json:"stock_status"`
	}

	AddToCartRequest struct {
		ProductName string `json:"product_name"`
		Quantity    uint64 `json:"quantity"`
		Seller      string `json:"seller"`
		ImageURL    string `json:"image_url"`
		Price       uint64 `json:"price"`
	}

	Cart struct {
		ProductID   string `json:"product_id"`
		ProductName string `json:"product_name"`
		Seller      string `json:"seller"`
		ImageURL    string `json:"image_url"`
		Price       uint64 `json:"price"`
		Quantity    uint64 `json:"quantity"`
	}

	CartCatalog struct {
		CartList    []Cart `json:"cart_list"`
		TotalAmount uint64 `json:"total_amount"`
	}

	CreatePaymentRequest struct {
		Amount      uint64 `json:"amount"`
		ProductRef  string `json:"product_ref,omitempty"`
		Method      string `json:"payment_method,omitempty"`
		TxReference string `json:"tx_reference,omitempty"`
	}

	Payment struct {
		PaymentID   string `json:"payment_id"`
		Amount      uint64 `json:"amount"`
		Method      string `json:"payment_method"`
		Status      string `json:"status"`
		TxReference string `json:"tx_reference,omitempty"`
	}

	CreateEscrowRequest struct {
		Buyer  string `json:"buyer"`
		Seller string `json:"seller"`
		Amount uint64 `json:"amount"`
	}

	EscrowMoveRequest struct {
		Amount uint64 `json:"amount"`
	}

	Escrow struct {
		Buyer       string `json:"buyer"`
		Seller      string `json:"seller"`
		Amount      uint64 `json:"amount"`
		Status      string `json:"status"`
		ReleaseFund bool   `json:"release_fund"`
	}

	CreateOrderRequest struct {
		PaymentID string `json:"payment_id"`
	}

	Order struct {
		OrderID    string `json:"order_id"`
		PaymentID  string `json:"payment_id"`
		TrackingID string `json:"tracking_id"`
		Status     string `json:"status"`
		Tracking   string `json:"order_tracking"`
	}

	CreditBalanceRequest struct {
		Amount uint64 `json:"amount"`
	}

	AddressResponse struct {
		Address string `json:"address"`
	}

	BalanceResponse struct {
		Amount uint64 `json:"amount"`
	}

	RevenueResponse struct {
		Seller string `json:"seller"`
		Amount uint64 `json:"amount"`
	}
)

func toProductView(p domain.Product) Product {
	return Product{
		ProductID:   p.ProductID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    string(p.Category),
		Division:    string(p.Division),
		SellerName:  p.SellerName,
		Seller:      p.Seller.String(),
		ImageURL:    p.ImageURL,
		Quantity:    p.Quantity,
		Rating:      p.Rating,
		StockStatus: string(p.Stock),
	}
}

func toCartView(c domain.Cart) Cart {
	return Cart{
		ProductID:   c.ProductID.String(),
		ProductName: c.ProductName,
		Seller:      c.Seller.String(),
		ImageURL:    c.ImageURL,
		Price:       c.Price,
		Quantity:    c.Quantity,
	}
}

func toPaymentView(p domain.Payment) Payment {
	return Payment{
		PaymentID:   p.PaymentID.String(),
		Amount:      p.Amount,
		Method:      string(p.Method),
		Status:      string(p.Status),
		TxReference: p.TxReference,
	}
}

func toEscrowView(e domain.Escrow) Escrow {
	return Escrow{
		Buyer:       e.Buyer.String(),
		Seller:      e.Seller.String(),
		Amount:      e.Amount,
		Status:      string(e.Status),
		ReleaseFund: e.ReleaseFund,
	}
}

func toOrderView(o domain.Order) Order {
	return Order{
		OrderID:    o.OrderID.String(),
		PaymentID:  o.PaymentID.String(),
		TrackingID: o.TrackingID.String(),
		Status:     string(o.Status),
		Tracking:   string(o.Tracking),
	}
}
