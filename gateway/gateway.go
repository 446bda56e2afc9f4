package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap/zapcore"

	"dailydsa/commands"
	"dailydsa/logger"
	"dailydsa/model"
	"dailydsa/service"
)

const component = "GATEWAY"

// Publisher sends raw payloads to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Subscriber registers a handler for a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(*nats.Msg)) (*nats.Subscription, error)
}

type Options struct {
	Router          *commands.Router
	Loop            *service.Loop
	Publisher       Publisher
	ReplySubject    string
	AnnounceSubject string
	Logger          *logger.Logger
}

// Gateway bridges chat messages on NATS to the command router. Every command
// runs on the service loop so state is only touched from one goroutine.
type Gateway struct {
	router          *commands.Router
	loop            *service.Loop
	pub             Publisher
	replySubject    string
	announceSubject string
	logger          *logger.Logger
	ctx             context.Context
}

func New(opts Options) *Gateway {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Gateway{
		router:          opts.Router,
		loop:            opts.Loop,
		pub:             opts.Publisher,
		replySubject:    opts.ReplySubject,
		announceSubject: opts.AnnounceSubject,
		logger:          log,
		ctx:             context.Background(),
	}
}

// Start subscribes to subject. ctx bounds every command the gateway runs.
func (g *Gateway) Start(ctx context.Context, sub Subscriber, subject string) (*nats.Subscription, error) {
	g.ctx = ctx
	s, err := sub.Subscribe(subject, func(msg *nats.Msg) {
		_ = g.Process(g.ctx, msg.Data, msg.Reply)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	g.logger.Log(zapcore.InfoLevel, "", "Listening for commands", map[string]any{
		"subject":      subject,
		"replySubject": g.replySubject,
	}, component, nil)
	return s, nil
}

// Process handles one inbound payload. The reply goes to replyTo when the
// sender asked for one, otherwise to the shared reply subject.
func (g *Gateway) Process(ctx context.Context, data []byte, replyTo string) error {
	traceID := uuid.New().String()

	var req commands.Request
	if err := json.Unmarshal(data, &req); err != nil {
		g.logger.Log(zapcore.WarnLevel, traceID, "Dropping malformed message", map[string]any{
			"method": "Process",
			"bytes":  len(data),
		}, component, err)
		return err
	}

	var (
		reply   commands.Reply
		handled bool
	)
	err := g.loop.Do(ctx, func(ctx context.Context) error {
		reply, handled = g.router.Handle(ctx, req)
		return nil
	})
	if err != nil {
		g.logger.Log(zapcore.ErrorLevel, traceID, "Command not run", map[string]any{
			"method":      "Process",
			"communityId": req.CommunityID,
		}, component, err)
		return err
	}
	if !handled {
		return nil
	}

	subject := g.replySubject
	if replyTo != "" {
		subject = replyTo
	}
	return g.publish(traceID, subject, reply)
}

// Announce posts a freshly generated set to the community's channel.
func (g *Gateway) Announce(set model.DailySet) error {
	if len(set.Problems) == 0 {
		return nil
	}
	reply := commands.Reply{
		CommunityID: set.CommunityID,
		ChannelID:   set.ChannelID,
		Text:        "Today's problems are here!",
		Embed:       commands.DailyEmbed(set, set.Date),
	}
	return g.publish(uuid.New().String(), g.announceSubject, reply)
}

// AnnounceAll posts every set and joins the failures.
func (g *Gateway) AnnounceAll(sets []model.DailySet) error {
	var errList []error
	for _, set := range sets {
		if err := g.Announce(set); err != nil {
			errList = append(errList, fmt.Errorf("announce %s: %w", set.CommunityID, err))
		}
	}
	return errors.Join(errList...)
}

func (g *Gateway) publish(traceID, subject string, reply commands.Reply) error {
	data, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	if err := g.pub.Publish(subject, data); err != nil {
		g.logger.Log(zapcore.ErrorLevel, traceID, "Publish failed", map[string]any{
			"method":      "publish",
			"subject":     subject,
			"communityId": reply.CommunityID,
		}, component, err)
		return err
	}
	return nil
}
