// Package mqtt publishes decoded frames to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/farouk15160/j1939-decoder/internal/bridge"
	"github.com/farouk15160/j1939-decoder/internal/logging"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	quiesceMillis  = 500
)

// Options configure the sink.
type Options struct {
	Broker      string // tcp://[user[:pass]@]host:port
	ClientID    string
	TopicPrefix string
	QoS         byte
	Retained    bool
}

// pahoClient is the subset of MQTT.Client used here.
type pahoClient interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) MQTT.Token
	Disconnect(quiesce uint)
}

// Client is a bridge.Sink publishing each result as JSON on
// <prefix>/<pgn>/<source address>.
type Client struct {
	mu        sync.Mutex
	paho      pahoClient
	brokerURL string
	user, pw  string
	opts      Options
}

// NewClient prepares a client; Connect opens the session.
func NewClient(opts Options) *Client {
	connectURL, user, pw := splitCredentials(opts.Broker)
	opts.TopicPrefix = strings.TrimSuffix(opts.TopicPrefix, "/")
	return &Client{brokerURL: connectURL, user: user, pw: pw, opts: opts}
}

// Connect configures paho and waits for the first connection.
func (c *Client) Connect() error {
	opts := MQTT.NewClientOptions()
	opts.AddBroker(c.brokerURL)
	opts.SetClientID(c.opts.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetMaxReconnectInterval(1 * time.Minute)
	opts.SetOrderMatters(true)
	if c.user != "" {
		opts.SetUsername(c.user)
	}
	if c.pw != "" {
		opts.SetPassword(c.pw)
	}
	opts.SetConnectionLostHandler(func(_ MQTT.Client, err error) {
		logging.Logf("MQTT Error: Connection lost: %v. AutoReconnect will attempt to reconnect...", err)
	})
	opts.SetOnConnectHandler(func(MQTT.Client) {
		logging.Debugf("MQTT: Connection established to %s", c.brokerURL)
	})

	client := MQTT.NewClient(opts)
	if c.user != "" {
		logging.Logf("MQTT Info: Connecting to %s with username '%s'", c.brokerURL, c.user)
	} else {
		logging.Logf("MQTT Info: Connecting to %s without username/password.", c.brokerURL)
	}
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connect to %s: timed out after %v", c.brokerURL, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to %s: %w", c.brokerURL, err)
	}

	c.mu.Lock()
	c.paho = client
	c.mu.Unlock()
	return nil
}

// Topic returns the topic a result is published on.
func (c *Client) Topic(res bridge.Result) string {
	h := res.Frame.Header
	return fmt.Sprintf("%s/%d/%d", c.opts.TopicPrefix, h.PGN, h.SourceAddress)
}

func (c *Client) Emit(res bridge.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal frame %s: %w", res.Frame.Token, err)
	}
	topic := c.Topic(res)

	c.mu.Lock()
	paho := c.paho
	c.mu.Unlock()
	if paho == nil {
		return fmt.Errorf("mqtt client for %s is not connected", c.brokerURL)
	}
	if !paho.IsConnected() {
		logging.Logf("MQTT Warning: Client not connected when publishing to %s. Message might be lost.", topic)
	}

	logging.Debugf("MQTT Publish -> Topic=%s | Payload=%s", topic, truncate(string(payload), 100))
	token := paho.Publish(topic, c.opts.QoS, c.opts.Retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects gracefully.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paho != nil && c.paho.IsConnected() {
		logging.Debugf("MQTT: Disconnecting client...")
		c.paho.Disconnect(quiesceMillis)
	}
	c.paho = nil
	return nil
}

// splitCredentials pulls "user:pass@" out of a broker URL. The password is
// optional.
func splitCredentials(brokerURL string) (connectURL, user, pw string) {
	if !strings.Contains(brokerURL, "@") {
		return brokerURL, "", ""
	}
	protoPrefix := "tcp://"
	rest := brokerURL
	if idx := strings.Index(brokerURL, "://"); idx != -1 {
		protoPrefix = brokerURL[:idx+3]
		rest = brokerURL[idx+3:]
	}
	userPassword, host, found := strings.Cut(rest, "@")
	if !found || host == "" {
		logging.Logf("MQTT Error: Invalid MQTT URL format: %s. Proceeding without credentials.", brokerURL)
		return brokerURL, "", ""
	}
	user, pw, _ = strings.Cut(userPassword, ":")
	return protoPrefix + host, user, pw
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
