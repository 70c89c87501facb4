// Package shutdown ожидает сигнал завершения и выполняет хуки остановки.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"yanote/pkg/logger"
)

const (
	LogSignalReceived = "shutdown signal received"
	LogContextDone    = "shutdown requested by context"
	LogHookFailed     = "shutdown hook failed"
	LogHooksTimedOut  = "shutdown hooks did not finish in time"
	LogCompleted      = "graceful shutdown completed"
)

// Hook именованная функция остановки.
type Hook struct {
	Name string
	Fn   func(context.Context) error
}

// Wait блокирует выполнение до SIGINT или SIGTERM и выполняет хуки в пределах timeout.
func Wait(timeout time.Duration, hooks ...Hook) {
	WaitContext(context.Background(), timeout, hooks...)
}

// WaitContext работает как Wait, но также завершается при отмене ctx.
// Хуки выполняются параллельно. Возвращает false, если не все хуки уложились в timeout.
func WaitContext(ctx context.Context, timeout time.Duration, hooks ...Hook) bool {
	log := logger.Log(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info(ctx, LogSignalReceived, zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info(ctx, LogContextDone)
	}

	return runHooks(context.WithoutCancel(ctx), timeout, hooks)
}

func runHooks(parent context.Context, timeout time.Duration, hooks []Hook) bool {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := logger.Log(ctx)

	var wg sync.WaitGroup
	for _, hook := range hooks {
		wg.Add(1)
		go func(h Hook) {
			defer wg.Done()
			if err := h.Fn(ctx); err != nil {
				log.Error(ctx, LogHookFailed, zap.String("hook", h.Name), zap.Error(err))
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(ctx, LogCompleted)
		return true
	case <-ctx.Done():
		log.Warn(ctx, LogHooksTimedOut, zap.Duration("timeout", timeout))
		return false
	}
}
