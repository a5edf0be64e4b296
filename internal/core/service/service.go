package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/niksmo/escrow-market/internal/core/port"
	"github.com/niksmo/escrow-market/pkg/locator"
)

var _ port.CatalogService = (*Service)(nil)
var _ port.CartService = (*Service)(nil)
var _ port.PaymentService = (*Service)(nil)
var _ port.EscrowService = (*Service)(nil)
var _ port.OrderService = (*Service)(nil)

// EventProducers are optional sinks for after-commit events. A nil
// producer disables that event kind.
type EventProducers struct {
	Catalog    port.CatalogEventProducer
	Cart       port.CartEventProducer
	Settlement port.SettlementEventProducer
	Order      port.OrderEventProducer
}

// Service implements the settlement core operations over the
// key-addressed record space.
//
// Mutating operations are serialized: each executes to completion as
// an indivisible unit relative to any other operation touching the
// same address set. Reads go to the stores directly.
type Service struct {
	mu        sync.Mutex
	records   port.RecordStore
	balances  port.BalanceStore
	producers EventProducers
}

func New(
	records port.RecordStore,
	balances port.BalanceStore,
	producers EventProducers,
) *Service {
	return &Service{
		records:   records,
		balances:  balances,
		producers: producers,
	}
}

func (s *Service) timestamp() int64 {
	return time.Now().Unix()
}

func (s *Service) getRecord(
	ctx context.Context, addr locator.Address, v any,
) error {
	b, err := s.records.Get(ctx, addr)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func makeRecord(
	namespace string, addr locator.Address, v any,
) (port.Record, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return port.Record{}, fmt.Errorf("encode %s record: %w", namespace, err)
	}
	return port.Record{Address: addr, Namespace: namespace, Body: body}, nil
}
