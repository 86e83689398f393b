package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	pkgerrors "github.com/fedstore/fedroute/pkg/errors"
)

const (
	connTimeout    = 10
	reconnTimeout  = 1
	disconnTimeout = 250
)

var (
	errConnectTimeout = errors.New("timeout reached while connecting to MQTT broker")
	errPublishTimeout = errors.New("failed to publish due to timeout reached")

	queryTopicTemplate = "m/%s/c/%s/store/%s/query"
)

// MQTTConfig configures the transport shared by every backend connection.
type MQTTConfig struct {
	Address  string
	QoS      byte
	Username string
	Password string
	DomainID string
	Timeout  time.Duration
}

type mqttConnector struct {
	cfg    MQTTConfig
	logger *slog.Logger
}

// NewMQTTConnector returns a Connector that establishes one MQTT session per
// backend client. The session is the connection handle the broker caches.
func NewMQTTConnector(cfg MQTTConfig, logger *slog.Logger) Connector {
	return &mqttConnector{cfg: cfg, logger: logger}
}

func (c *mqttConnector) Connect(ctx context.Context, clientName string, endpoint Endpoint) (Connection, error) {
	if clientName == "" {
		return nil, pkgerrors.ErrEmptyClient
	}

	client, err := newClient(c.cfg, "fedroute-"+clientName, c.logger)
	if err != nil {
		return nil, err
	}

	return &mqttConnection{
		client:  client,
		topic:   fmt.Sprintf(queryTopicTemplate, c.cfg.DomainID, endpoint.ChannelID, clientName),
		qos:     c.cfg.QoS,
		timeout: c.cfg.Timeout,
	}, nil
}

// startQueryMessage is the payload delivered to the backend client. Criteria
// stays opaque; the backend decodes it with its own registry.
type startQueryMessage struct {
	Collection      string `json:"collection"`
	Criteria        []byte `json:"criteria"`
	ResumptionToken []byte `json:"resumption_token,omitempty"`
}

type mqttConnection struct {
	client  mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
}

func (mc *mqttConnection) StartQuery(ctx context.Context, collection string, criteria, resumptionToken []byte) error {
	data, err := json.Marshal(startQueryMessage{
		Collection:      collection,
		Criteria:        criteria,
		ResumptionToken: resumptionToken,
	})
	if err != nil {
		return err
	}

	token := mc.client.Publish(mc.topic, mc.qos, false, data)
	if token.Error() != nil {
		return token.Error()
	}
	if ok := token.WaitTimeout(mc.timeout); !ok {
		return errPublishTimeout
	}

	return token.Error()
}

func (mc *mqttConnection) Close(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		mc.client.Disconnect(disconnTimeout)

		return nil
	}
}

func newClient(cfg MQTTConfig, id string, logger *slog.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Address).
		SetClientID(id).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(connTimeout * time.Second).
		SetMaxReconnectInterval(reconnTimeout * time.Minute)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("MQTT connection established", slog.String("client_id", id))
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		args := []any{slog.String("client_id", id)}
		if err != nil {
			args = append(args, slog.Any("error", err))
		}

		logger.Info("MQTT connection lost", args...)
	})

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if token.Error() != nil {
		return nil, errors.Join(errors.New("failed to connect to MQTT broker"), token.Error())
	}
	if ok := token.WaitTimeout(cfg.Timeout); !ok {
		return nil, errConnectTimeout
	}

	return client, nil
}
