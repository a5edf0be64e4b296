package main

import (
	"context"
	"time"

	"github.com/niksmo/escrow-market/config"
	"github.com/niksmo/escrow-market/internal/app"
	"github.com/niksmo/escrow-market/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	escrowService := app.New(sigCtx, cfg)

	escrowService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	escrowService.Close(ctx)
}
