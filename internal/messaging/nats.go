package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// ConnectNats opens a NATS connection with reconnect handling that logs
// through logger.
func ConnectNats(url string, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.Name("feed-service"),
		nats.Timeout(5 * time.Second),
		nats.ReconnectWait(1 * time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected",
				"event", "nats_disconnected",
				"module", "internal/messaging",
				"error", errString(err),
			)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected",
				"event", "nats_reconnected",
				"module", "internal/messaging",
			)
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("nats error",
				"event", "nats_error",
				"module", "internal/messaging",
				"error", errString(err),
			)
		}),
		nats.DrainTimeout(10 * time.Second),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to nats",
		"event", "nats_connected",
		"module", "internal/messaging",
		"url", url,
	)
	return nc, nil
}

// NatsTransport publishes every event on "<subject>.<event>" so that other
// services can follow the feed.
type NatsTransport struct {
	nc      *nats.Conn
	subject string
	logger  *slog.Logger
}

func NewNatsTransport(nc *nats.Conn, subject string, logger *slog.Logger) *NatsTransport {
	if logger == nil {
		logger = slog.Default()
	}
	if subject == "" {
		subject = "feed"
	}
	return &NatsTransport{nc: nc, subject: subject, logger: logger}
}

func (t *NatsTransport) Subject(event string) string {
	return t.subject + "." + event
}

// Broadcast fails only once the connection is closed. While reconnecting,
// the client buffers publishes and flushes them on reconnect.
func (t *NatsTransport) Broadcast(_ context.Context, event string, payload []byte) error {
	if t.nc == nil || t.nc.IsClosed() {
		return nats.ErrConnectionClosed
	}
	return t.nc.Publish(t.Subject(event), payload)
}

// Close drains the connection so pending publishes are flushed.
func (t *NatsTransport) Close() {
	if t.nc == nil || t.nc.IsClosed() {
		return
	}
	if err := t.nc.Drain(); err != nil {
		t.logger.Warn("nats drain failed",
			"event", "nats_drain_failed",
			"module", "internal/messaging",
			"error", err.Error(),
		)
		t.nc.Close()
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
