package natsdelivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/command"
	"github.com/Arthur-Ayvazyan/rest-api/internal/application/interfaces"
	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
	"github.com/nats-io/nats.go"
)

const (
	module = "internal/delivery/nats"

	defaultQueueGroup     = "feed-service"
	defaultHandlerTimeout = 2 * time.Second
)

type ResponderConfig struct {
	// Prefix is prepended to every subject, e.g. "feed" gives
	// "feed.auth.login".
	Prefix         string
	QueueGroup     string
	HandlerTimeout time.Duration
}

type handlerFunc func(ctx context.Context, data []byte) (any, error)

// Responder answers auth requests over NATS request/reply. Auth subjects
// are queue subscriptions so that several instances share the load.
type Responder struct {
	auth    interfaces.AuthService
	prefix  string
	queue   string
	timeout time.Duration
	subs    []*nats.Subscription
	logger  *slog.Logger
}

type errorReply struct {
	Error  string                    `json:"error"`
	Status int                       `json:"status"`
	Data   []domainerrors.FieldError `json:"data,omitempty"`
}

func NewResponder(auth interfaces.AuthService, cfg ResponderConfig, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "feed"
	}
	if cfg.QueueGroup == "" {
		cfg.QueueGroup = defaultQueueGroup
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = defaultHandlerTimeout
	}
	return &Responder{
		auth:    auth,
		prefix:  cfg.Prefix,
		queue:   cfg.QueueGroup,
		timeout: cfg.HandlerTimeout,
		logger:  logger,
	}
}

func (r *Responder) SignUpSubject() string { return r.prefix + ".auth.signup" }
func (r *Responder) LoginSubject() string  { return r.prefix + ".auth.login" }
func (r *Responder) HealthSubject() string { return r.prefix + ".health" }

// Subscribe registers every subject on nc. On failure the subscriptions
// made so far are removed again.
func (r *Responder) Subscribe(nc *nats.Conn) error {
	routes := []struct {
		subject string
		handler handlerFunc
	}{
		{r.SignUpSubject(), r.signUp},
		{r.LoginSubject(), r.login},
	}
	for _, route := range routes {
		sub, err := nc.QueueSubscribe(route.subject, r.queue, r.wrap(route.subject, route.handler))
		if err != nil {
			r.Close()
			return fmt.Errorf("subscribe %s: %w", route.subject, err)
		}
		r.subs = append(r.subs, sub)
	}

	sub, err := nc.Subscribe(r.HealthSubject(), func(msg *nats.Msg) {
		r.respond(msg, r.health())
	})
	if err != nil {
		r.Close()
		return fmt.Errorf("subscribe %s: %w", r.HealthSubject(), err)
	}
	r.subs = append(r.subs, sub)

	r.logger.Info("nats responder subscribed",
		"event", "nats_responder_subscribed",
		"module", module,
		"prefix", r.prefix,
		"queue", r.queue,
	)
	return nil
}

// Close drains the responder's subscriptions.
func (r *Responder) Close() {
	for _, sub := range r.subs {
		if err := sub.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			r.logger.Warn("nats unsubscribe failed",
				"event", "nats_unsubscribe_failed",
				"module", module,
				"subject", sub.Subject,
				"error", err.Error(),
			)
		}
	}
	r.subs = nil
}

func (r *Responder) wrap(subject string, fn handlerFunc) nats.MsgHandler {
	return func(msg *nats.Msg) {
		r.respond(msg, r.handle(subject, fn, msg.Data))
	}
}

func (r *Responder) respond(msg *nats.Msg, data []byte) {
	if err := msg.Respond(data); err != nil {
		r.logger.Warn("nats reply failed",
			"event", "nats_reply_failed",
			"module", module,
			"subject", msg.Subject,
			"error", err.Error(),
		)
	}
}

func (r *Responder) handle(subject string, fn handlerFunc, data []byte) []byte {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	result, err := fn(ctx, data)
	if err != nil {
		return r.encodeError(subject, err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return r.encodeError(subject, domainerrors.Internal("encode reply", err))
	}
	return out
}

func (r *Responder) encodeError(subject string, err error) []byte {
	reply := errorReply{Error: "An internal error occurred.", Status: 500}
	if classified, ok := domainerrors.As(err); ok && classified.Kind != domainerrors.KindInternal && classified.Kind != domainerrors.KindNotInitialized {
		reply = errorReply{
			Error:  classified.Message,
			Status: classified.Kind.HTTPStatus(),
			Data:   classified.Data,
		}
	} else {
		r.logger.Error("nats request failed",
			"event", "nats_request_failed",
			"module", module,
			"subject", subject,
			"error", err.Error(),
		)
	}
	out, _ := json.Marshal(reply)
	return out
}

func (r *Responder) signUp(ctx context.Context, data []byte) (any, error) {
	var signUpCommand command.SignUpCommand
	if err := json.Unmarshal(data, &signUpCommand); err != nil {
		return nil, domainerrors.ErrInvalidRequestBody
	}
	result, err := r.auth.SignUp(ctx, &signUpCommand)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Responder) login(ctx context.Context, data []byte) (any, error) {
	var loginCommand command.LoginCommand
	if err := json.Unmarshal(data, &loginCommand); err != nil {
		return nil, domainerrors.ErrInvalidRequestBody
	}
	result, err := r.auth.Login(ctx, &loginCommand)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Responder) health() []byte {
	out, _ := json.Marshal(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
	return out
}
