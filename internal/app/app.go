package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/sr"

	"github.com/niksmo/escrow-market/config"
	"github.com/niksmo/escrow-market/internal/adapter"
	"github.com/niksmo/escrow-market/internal/adapter/auth"
	"github.com/niksmo/escrow-market/internal/adapter/httphandler"
	"github.com/niksmo/escrow-market/internal/adapter/kafka"
	"github.com/niksmo/escrow-market/internal/adapter/storage"
	"github.com/niksmo/escrow-market/internal/core/port"
	"github.com/niksmo/escrow-market/internal/core/service"
	"github.com/niksmo/escrow-market/pkg/retry"
	"github.com/niksmo/escrow-market/pkg/schema"
)

type serdes struct {
	productCreated schema.Serde
	cartUpdated    schema.Serde
	escrowSettled  schema.Serde
	orderPlaced    schema.Serde
}

type producers struct {
	catalog     kafka.CatalogEventsProducer
	cart        kafka.CartEventsProducer
	settlements kafka.SettlementsProducer
	orders      kafka.OrdersProducer
}

type coreService struct {
	catalog  port.CatalogService
	cart     port.CartService
	payments port.PaymentService
	escrows  port.EscrowService
	orders   port.OrderService
}

type closer interface {
	Close() error
}

type App struct {
	ctx          context.Context
	cfg          config.Config
	wg           sync.WaitGroup
	storageCl    closer
	serdes       serdes
	producers    producers
	revenueProc  kafka.SellerRevenueProcessor
	revenueView  kafka.SellerRevenueView
	service      coreService
	httpServer   httphandler.HTTPServer
	sqlStorage   *storage.SQLStorage
}

func New(context context.Context, config config.Config) *App {
	app := &App{ctx: context, cfg: config}

	app.initLogger()
	app.initSerdes()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs
	topics := app.cfg.Broker.Topics
	ctx := app.ctx

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	makeSerde := func(
		topic string,
		construct func(context.Context, ...schema.Opt) (schema.Serde, error),
	) schema.Serde {
		s, err := construct(
			ctx,
			schema.SubjectOpt(topic+"-value"),
			schema.SchemaIdentifierOpt(schemaCreater),
		)
		if err != nil {
			app.fallDown(op, err)
		}
		return s
	}

	app.serdes.productCreated = makeSerde(
		topics.ProductCreated, schema.NewSerdeProductCreatedV1,
	)
	app.serdes.cartUpdated = makeSerde(
		topics.CartUpdated, schema.NewSerdeCartUpdatedV1,
	)
	app.serdes.escrowSettled = makeSerde(
		topics.EscrowSettled, schema.NewSerdeEscrowSettledV1,
	)
	app.serdes.orderPlaced = makeSerde(
		topics.OrderPlaced, schema.NewSerdeOrderPlacedV1,
	)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	topics := app.cfg.Broker.Topics

	var tlsCfg *tls.Config
	if brokerTLS := app.cfg.Broker.TLS; brokerTLS.Enabled() {
		tlsCfg = adapter.MakeTLSConfig(
			brokerTLS.CAFile, brokerTLS.CertFile, brokerTLS.KeyFile,
		)
	}

	catalogProducer, err := kafka.NewCatalogEventsProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.ProductCreated, tlsCfg),
		kafka.ProducerEncoderOpt(app.serdes.productCreated),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	cartProducer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.CartUpdated, tlsCfg),
		kafka.ProducerEncoderOpt(app.serdes.cartUpdated),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	settlementsProducer, err := kafka.NewSettlementsProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.EscrowSettled, tlsCfg),
		kafka.ProducerEncoderOpt(app.serdes.escrowSettled),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.OrderPlaced, tlsCfg),
		kafka.ProducerEncoderOpt(app.serdes.orderPlaced),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producers.catalog = catalogProducer
	app.producers.cart = cartProducer
	app.producers.settlements = settlementsProducer
	app.producers.orders = ordersProducer

	group := app.cfg.Broker.Consumers.SellerRevenueGroup

	revenueProc, err := kafka.NewSellerRevenueProcessor(
		seedBrokers, topics.EscrowSettled, group, app.serdes.escrowSettled,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.revenueProc = revenueProc

	revenueView, err := kafka.NewSellerRevenueView(seedBrokers, group)
	if err != nil {
		app.fallDown(op, err)
	}
	app.revenueView = revenueView
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	var (
		records  port.RecordStore
		balances port.BalanceStore
	)

	switch app.cfg.Storage.Mode {
	case "sql":
		sqlStorage, err := storage.NewSQLStorage(app.ctx, app.cfg.Storage.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		err = retry.Do(app.ctx, retry.RetryConfig{
			MaxAttempts: 5,
			Backoff:     retry.ExponentialBackoff(500 * time.Millisecond),
		}, func() error {
			return sqlStorage.Ping(app.ctx)
		})
		if err != nil {
			app.fallDown(op, err)
		}
		app.sqlStorage = sqlStorage
		records, balances = sqlStorage, sqlStorage
	case "kv":
		kvStorage, err := storage.NewKVStorage(app.cfg.Storage.KVPath)
		if err != nil {
			app.fallDown(op, err)
		}
		app.storageCl = kvStorage
		records, balances = kvStorage, kvStorage
	default:
		app.fallDown(op, fmt.Errorf(
			"unknown storage mode %q", app.cfg.Storage.Mode,
		))
	}

	s := service.New(records, balances, service.EventProducers{
		Catalog:    app.producers.catalog,
		Cart:       app.producers.cart,
		Settlement: app.producers.settlements,
		Order:      app.producers.orders,
	})
	app.service.catalog = s
	app.service.cart = s
	app.service.payments = s
	app.service.escrows = s
	app.service.orders = s
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	authorizer := auth.NewEd25519Verifier()

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, authorizer, app.service.catalog)
	httphandler.RegisterCart(mux, authorizer, app.service.cart)
	httphandler.RegisterPayment(mux, authorizer, app.service.payments)
	httphandler.RegisterEscrow(mux, authorizer, app.service.escrows)
	httphandler.RegisterOrder(mux, authorizer, app.service.orders)
	httphandler.RegisterRevenue(mux, app.revenueView)

	handler := httphandler.AllowJSON(mux)
	httpServer := httphandler.NewHTTPServer(addr, handler)
	app.httpServer = httpServer
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	app.wg.Add(1)
	go app.revenueProc.Run(app.ctx, stopFn, &app.wg)
	go app.revenueView.Run(app.ctx)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.revenueProc.Close()
	app.wg.Wait()

	app.producers.catalog.Close()
	app.producers.cart.Close()
	app.producers.settlements.Close()
	app.producers.orders.Close()

	if app.sqlStorage != nil {
		app.sqlStorage.Close()
	}
	if app.storageCl != nil {
		if err := app.storageCl.Close(); err != nil {
			slog.Error("failed to close storage", "err", err)
		}
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
