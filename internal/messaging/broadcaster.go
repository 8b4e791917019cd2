package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"

	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
)

// ErrAlreadyInitialized is returned when Initialize is called a second time.
var ErrAlreadyInitialized = errors.New("broadcaster already initialized")

// Transport delivers an encoded event to every currently connected
// subscriber. Implementations must not report per-subscriber failures.
type Transport interface {
	Broadcast(ctx context.Context, event string, payload []byte) error
}

type binding struct {
	transport Transport
}

// Broadcaster is a best-effort, at-most-once event emitter bound to exactly
// one transport for the life of the process.
type Broadcaster struct {
	bound  atomic.Pointer[binding]
	logger *slog.Logger
}

func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{logger: logger}
}

func (b *Broadcaster) Initialize(transport Transport) error {
	if transport == nil {
		return errors.New("broadcaster transport is required")
	}
	if !b.bound.CompareAndSwap(nil, &binding{transport: transport}) {
		return ErrAlreadyInitialized
	}
	b.logger.Info("broadcaster initialized",
		"event", "broadcaster_initialized",
		"module", "internal/messaging",
	)
	return nil
}

func (b *Broadcaster) Initialized() bool {
	return b.bound.Load() != nil
}

// Emit encodes payload as JSON and hands it to the bound transport.
func (b *Broadcaster) Emit(ctx context.Context, event string, payload any) error {
	bound := b.bound.Load()
	if bound == nil {
		return domainerrors.ErrNotInitialized
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return domainerrors.Internal("encode broadcast payload", err)
	}

	if err := bound.transport.Broadcast(ctx, event, data); err != nil {
		return domainerrors.Internal("broadcast "+event, err)
	}

	b.logger.Debug("event emitted",
		"event", "broadcast_emit",
		"module", "internal/messaging",
		"name", event,
		"bytes", len(data),
	)
	return nil
}

// Fanout binds several transports as one. Every transport is attempted;
// failures are joined.
type Fanout []Transport

func (f Fanout) Broadcast(ctx context.Context, event string, payload []byte) error {
	var errs []error
	for _, t := range f {
		if err := t.Broadcast(ctx, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
