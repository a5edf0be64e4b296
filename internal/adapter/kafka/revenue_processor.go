package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"

	"github.com/niksmo/escrow-market/pkg/schema"
)

// An escrowSettledCodec serdes [schema.EscrowSettledV1] for goka.
type escrowSettledCodec struct {
	serde Serde
}

func (c escrowSettledCodec) Encode(v any) ([]byte, error) {
	const op = "escrowSettledCodec.Encode"
	if _, ok := v.(schema.EscrowSettledV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c escrowSettledCodec) Decode(data []byte) (any, error) {
	const op = "escrowSettledCodec.Decode"
	var s schema.EscrowSettledV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

type RevenueValue uint64

type RevenueValueCodec struct{}

func (RevenueValueCodec) Encode(v any) ([]byte, error) {
	const op = "RevenueValueCodec.Encode"
	rv, ok := v.(RevenueValue)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendUint([]byte(nil), uint64(rv), 10), nil
}

func (RevenueValueCodec) Decode(data []byte) (any, error) {
	const op = "RevenueValueCodec.Decode"
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return RevenueValue(n), nil
}

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor].
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "runProc"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A SellerRevenueProcessor folds the settlements stream into a
// per-seller settled revenue group table.
type SellerRevenueProcessor struct {
	processor *processor
}

func NewSellerRevenueProcessor(
	seedBrokers []string, stream, group string, settledSerde Serde,
) (SellerRevenueProcessor, error) {
	const op = "NewSellerRevenueProcessor"

	p := SellerRevenueProcessor{&processor{opPrefix: "SellerRevenueProcessor"}}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(stream),
			escrowSettledCodec{settledSerde},
			p.processFn,
		),
		goka.Persist(RevenueValueCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return SellerRevenueProcessor{}, opErr(err, op)
	}

	p.processor.gp = gp
	return p, nil
}

func (p SellerRevenueProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.processor.run(ctx, stopFn, wg)
}

func (p SellerRevenueProcessor) Close() {
	p.processor.close()
}

func (p SellerRevenueProcessor) processFn(ctx goka.Context, msg any) {
	ev, ok := msg.(schema.EscrowSettledV1)
	if !ok {
		return
	}

	var total RevenueValue
	if v := ctx.Value(); v != nil {
		total = v.(RevenueValue)
	}
	total += RevenueValue(ev.Amount)
	ctx.SetValue(total)
}
