package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
	"github.com/niksmo/escrow-market/pkg/schema"
)

var _ port.CatalogEventProducer = (*CatalogEventsProducer)(nil)
var _ port.CartEventProducer = (*CartEventsProducer)(nil)
var _ port.SettlementEventProducer = (*SettlementsProducer)(nil)
var _ port.OrderEventProducer = (*OrdersProducer)(nil)

// A producer is used for composition.
//
// Producing records to the kafka broker and closing the underlying
// [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
	encoder  Encoder
}

func newProducer(opPrefix string, opts ...ProducerOpt) (producer, error) {
	const op = "newProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, opPrefix, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return producer{}, opErr(err, opPrefix, op)
		}
	}

	return producer{
		opPrefix: opPrefix,
		cl:       options.cl,
		encoder:  options.encoder,
	}, nil
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(ctx context.Context, key []byte, v any) error {
	const op = "produce"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	b, err := p.encoder.Encode(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r := &kgo.Record{Key: key, Value: b}
	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A CatalogEventsProducer produces [domain.ProductCreatedEvent],
// keyed by the seller identity.
type CatalogEventsProducer struct {
	producer producer
}

func NewCatalogEventsProducer(
	opts ...ProducerOpt,
) (CatalogEventsProducer, error) {
	p, err := newProducer("CatalogEventsProducer", opts...)
	if err != nil {
		return CatalogEventsProducer{}, err
	}
	return CatalogEventsProducer{p}, nil
}

func (p CatalogEventsProducer) Close() {
	p.producer.close()
}

func (p CatalogEventsProducer) ProduceProductCreated(
	ctx context.Context, ev domain.ProductCreatedEvent,
) error {
	s := schema.ProductCreatedV1{
		ProductAddress: ev.ProductAddress.String(),
		Seller:         ev.Seller.String(),
		Name:           ev.Name,
		Price:          int64(ev.Price),
		Category:       string(ev.Category),
		Division:       string(ev.Division),
	}
	return p.producer.produce(ctx, []byte(s.Seller), s)
}

// A CartEventsProducer produces [domain.CartUpdatedEvent], keyed by
// the consumer identity.
type CartEventsProducer struct {
	producer producer
}

func NewCartEventsProducer(opts ...ProducerOpt) (CartEventsProducer, error) {
	p, err := newProducer("CartEventsProducer", opts...)
	if err != nil {
		return CartEventsProducer{}, err
	}
	return CartEventsProducer{p}, nil
}

func (p CartEventsProducer) Close() {
	p.producer.close()
}

func (p CartEventsProducer) ProduceCartUpdated(
	ctx context.Context, ev domain.CartUpdatedEvent,
) error {
	s := schema.CartUpdatedV1{
		Consumer:    ev.Consumer.String(),
		Seller:      ev.Seller.String(),
		ProductName: ev.ProductName,
		Quantity:    int64(ev.Quantity),
		Price:       int64(ev.Price),
		TotalAmount: int64(ev.TotalAmount),
	}
	return p.producer.produce(ctx, []byte(s.Consumer), s)
}

// A SettlementsProducer produces [domain.EscrowSettledEvent], keyed
// by the seller identity so the revenue processor can aggregate per
// seller.
type SettlementsProducer struct {
	producer producer
}

func NewSettlementsProducer(opts ...ProducerOpt) (SettlementsProducer, error) {
	p, err := newProducer("SettlementsProducer", opts...)
	if err != nil {
		return SettlementsProducer{}, err
	}
	return SettlementsProducer{p}, nil
}

func (p SettlementsProducer) Close() {
	p.producer.close()
}

func (p SettlementsProducer) ProduceEscrowSettled(
	ctx context.Context, ev domain.EscrowSettledEvent,
) error {
	s := schema.EscrowSettledV1{
		Buyer:  ev.Buyer.String(),
		Seller: ev.Seller.String(),
		Amount: int64(ev.Amount),
	}
	return p.producer.produce(ctx, []byte(s.Seller), s)
}

// An OrdersProducer produces [domain.OrderPlacedEvent], keyed by the
// signer identity.
type OrdersProducer struct {
	producer producer
}

func NewOrdersProducer(opts ...ProducerOpt) (OrdersProducer, error) {
	p, err := newProducer("OrdersProducer", opts...)
	if err != nil {
		return OrdersProducer{}, err
	}
	return OrdersProducer{p}, nil
}

func (p OrdersProducer) Close() {
	p.producer.close()
}

func (p OrdersProducer) ProduceOrderPlaced(
	ctx context.Context, ev domain.OrderPlacedEvent,
) error {
	s := schema.OrderPlacedV1{
		Signer:    ev.Signer.String(),
		OrderID:   ev.OrderID.String(),
		PaymentID: ev.PaymentID.String(),
	}
	return p.producer.produce(ctx, []byte(s.Signer), s)
}
