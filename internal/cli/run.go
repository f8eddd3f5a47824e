package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/cork/internal/config"
	"github.com/roach88/cork/internal/engine"
	"github.com/roach88/cork/internal/expr"
)

// signalContext derives a context from cmd that is cancelled on SIGINT or
// SIGTERM. The returned stop func releases the signal handler.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// newEvaluator returns the expression evaluator configured by cfg.
func newEvaluator(cfg config.Config) *expr.Evaluator {
	return &expr.Evaluator{Punctuate: cfg.PunctuateOutput}
}

// newEngine builds an engine around the expression evaluator.
func newEngine(cfg config.Config) *engine.Engine {
	return engine.New(newEvaluator(cfg),
		engine.WithRequestIDs(engine.UUIDv7Generator{}),
	)
}

// withEngine runs eng's event loop alongside fn and stops the engine when
// fn returns. The first error from either side is returned; a clean stop
// and cancellation are not errors.
func withEngine(ctx context.Context, eng *engine.Engine, fn func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return eng.Run(gctx)
	})
	g.Go(func() error {
		defer eng.Stop()
		return fn(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Debug("engine stopped")
	return nil
}
