package natsclient

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap/zapcore"

	"dailydsa/logger"
)

const component = "NATS"

type NatsClient struct {
	Conn   *nats.Conn
	logger *logger.Logger
}

// NewNatsClient connects to natsURL and keeps reconnecting for as long as the
// bot runs, logging every disconnect.
func NewNatsClient(natsURL, name string, log *logger.Logger) (*NatsClient, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Log(zapcore.WarnLevel, "", "Disconnected from NATS", map[string]any{"url": natsURL}, component, err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Log(zapcore.InfoLevel, "", "Reconnected to NATS", map[string]any{"url": c.ConnectedUrl()}, component, nil)
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NatsClient{Conn: nc, logger: log}, nil
}

// Close drains pending messages before closing the connection.
func (n *NatsClient) Close() {
	if n.Conn == nil {
		return
	}
	if err := n.Conn.Drain(); err != nil {
		n.logger.Log(zapcore.WarnLevel, "", "Drain failed, closing", nil, component, err)
		n.Conn.Close()
	}
}

func (n *NatsClient) Publish(subject string, data []byte) error {
	return n.Conn.Publish(subject, data)
}

func (n *NatsClient) PublishJSON(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return n.Conn.Publish(subject, data)
}

func (n *NatsClient) Subscribe(subject string, handler func(*nats.Msg)) (*nats.Subscription, error) {
	return n.Conn.Subscribe(subject, handler)
}
