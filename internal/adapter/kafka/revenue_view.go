package kafka

import (
	"context"
	"log/slog"

	"github.com/lovoo/goka"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
)

var _ port.RevenueViewer = (*SellerRevenueView)(nil)

// A SellerRevenueView serves reads from the revenue group table.
type SellerRevenueView struct {
	gv *goka.View
}

func NewSellerRevenueView(
	seedBrokers []string, group string,
) (SellerRevenueView, error) {
	const op = "NewSellerRevenueView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		RevenueValueCodec{},
	)
	if err != nil {
		return SellerRevenueView{}, opErr(err, op)
	}

	return SellerRevenueView{gv}, nil
}

func (v SellerRevenueView) Run(ctx context.Context) {
	const op = "SellerRevenueView.Run"
	log := slog.With("op", op)

	if err := v.gv.Run(ctx); err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (v SellerRevenueView) SellerRevenue(
	seller domain.Identity,
) (uint64, error) {
	const op = "SellerRevenueView.SellerRevenue"

	value, err := v.gv.Get(seller.String())
	if err != nil {
		return 0, opErr(err, op)
	}
	if value == nil {
		return 0, nil
	}
	return uint64(value.(RevenueValue)), nil
}
