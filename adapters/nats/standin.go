package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	natsgo "github.com/nats-io/nats.go"

	"github.com/jsilhan/seqmock/core/reflector"
	"github.com/jsilhan/seqmock/ports/host"
)

// envelopeFrame is the wire encoding of one message.
type envelopeFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// responseFrame is the wire encoding of one dispatch result.
type responseFrame struct {
	Data []byte `json:"data,omitempty"`
	Err  string `json:"err,omitempty"`
}

// ExposeConfig configures one exposed stand-in.
type ExposeConfig struct {
	Connect Connector       // defaults to ConnectDefault()
	Subject string          // request/reply subject, required
	Types   *TypeRegistry   // decodable message types, required
	Context context.Context // delivery context, defaults to context.Background()
	Log     *slog.Logger    // diagnostics (optional)
}

// StandIn is a stand-in actor listening on a NATS subject. Requests are
// decoded, delivered to the underlying Ref in arrival order, and answered
// with the dispatch result or error.
type StandIn struct {
	nc      *natsgo.Conn
	closeNc closeFunc
	sub     *natsgo.Subscription
	log     *slog.Logger
}

// Expose subscribes ref to cfg.Subject. NATS invokes subscription callbacks
// for one subscription sequentially, so delivery order on the subject is the
// order presented to the dispatcher.
func Expose(cfg ExposeConfig, ref host.Ref) (*StandIn, error) {
	if cfg.Subject == "" {
		return nil, errors.New("nats: subject is required")
	}
	if cfg.Types == nil {
		return nil, errors.New("nats: type registry is required")
	}

	connFn := cfg.Connect
	if connFn == nil {
		connFn = ConnectDefault()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("standin", ref.ID()), slog.String("subject", cfg.Subject))

	nc, closeNc, err := connFn()
	if err != nil {
		return nil, err
	}

	s := &StandIn{nc: nc, closeNc: closeNc, log: log}

	sub, err := nc.Subscribe(cfg.Subject, func(m *natsgo.Msg) {
		s.respond(m, s.handle(ctx, cfg.Types, ref, m.Data))
	})
	if err != nil {
		closeNc()
		return nil, fmt.Errorf("nats: subscribe %s: %w", cfg.Subject, err)
	}
	s.sub = sub

	// Make sure the subscription is active before the caller starts sending.
	if err := nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		closeNc()
		return nil, fmt.Errorf("nats: flush: %w", err)
	}

	return s, nil
}

func (s *StandIn) handle(ctx context.Context, types *TypeRegistry, ref host.Ref, payload []byte) responseFrame {
	var env envelopeFrame
	if err := json.Unmarshal(payload, &env); err != nil {
		return responseFrame{Err: fmt.Sprintf("decode envelope: %s", err)}
	}

	msg, err := types.decode(env.Type, env.Data)
	if err != nil {
		return responseFrame{Err: err.Error()}
	}

	res, err := ref.Send(ctx, msg)
	if err != nil {
		return responseFrame{Err: err.Error()}
	}

	data, err := json.Marshal(res)
	if err != nil {
		return responseFrame{Err: fmt.Sprintf("encode result: %s", err)}
	}
	return responseFrame{Data: data}
}

func (s *StandIn) respond(m *natsgo.Msg, rf responseFrame) {
	payload, err := json.Marshal(rf)
	if err != nil {
		s.log.Error("encode response frame", slog.Any("error", err))
		return
	}
	if err := m.Respond(payload); err != nil {
		s.log.Error("respond", slog.Any("error", err))
	}
}

// Close unsubscribes and releases the connection. The underlying Ref keeps
// running; stop it separately.
func (s *StandIn) Close() {
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	s.closeNc()
}

// Request sends a typed message to an exposed stand-in and decodes the typed
// reply. A dispatch failure on the far side comes back as an error carrying
// the remote error text.
func Request[IN any, OUT any](ctx context.Context, nc *natsgo.Conn, subject string, in IN) (*OUT, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("nats: encode request: %w", err)
	}

	payload, err := json.Marshal(envelopeFrame{
		Type: reflector.TypeInfoFor[IN]().Name,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("nats: encode envelope: %w", err)
	}

	msg, err := nc.RequestWithContext(ctx, subject, payload)
	if err != nil {
		return nil, fmt.Errorf("nats: request: %w", err)
	}

	var rf responseFrame
	if err := json.Unmarshal(msg.Data, &rf); err != nil {
		return nil, fmt.Errorf("nats: decode response: %w", err)
	}
	if rf.Err != "" {
		return nil, errors.New(rf.Err)
	}

	var out OUT
	if len(rf.Data) > 0 {
		if err := json.Unmarshal(rf.Data, &out); err != nil {
			return nil, fmt.Errorf("nats: decode result: %w", err)
		}
	}
	return &out, nil
}
