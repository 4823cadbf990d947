package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/config"
	"github.com/muurk/irblaster/internal/logging"
	"github.com/muurk/irblaster/internal/transmit"
)

const (
	// SendSuffix is the topic requests are read from
	SendSuffix = "send"
	// ResultSuffix is the topic results are published to
	ResultSuffix = "result"

	// DefaultSendTimeout bounds one transmission
	DefaultSendTimeout = 10 * time.Second

	connectTimeout = 10 * time.Second
)

// SendRequest is the payload of <prefix>/send
type SendRequest struct {
	ID           string            `json:"id,omitempty"`
	Remote       string            `json:"remote,omitempty"`
	Command      string            `json:"command,omitempty"`
	CustomerCode config.HexBytes   `json:"customer_code,omitempty"`
	Payloads     []config.HexBytes `json:"payloads,omitempty"`
}

// Result is the payload of <prefix>/result
type Result struct {
	ID      string    `json:"id,omitempty"`
	OK      bool      `json:"ok"`
	Remote  string    `json:"remote,omitempty"`
	Command string    `json:"command,omitempty"`
	Frames  int       `json:"frames"`
	Error   string    `json:"error,omitempty"`
	Time    time.Time `json:"time"`
}

// Trigger connects MQTT requests to a transmit.Driver
type Trigger struct {
	Registry *config.Registry
	Driver   *transmit.Driver
	Prefix   string

	// SendTimeout bounds each transmission (0 = DefaultSendTimeout)
	SendTimeout time.Duration

	mu sync.Mutex // serialises sends
}

// NewTrigger creates a trigger publishing under prefix
func NewTrigger(registry *config.Registry, driver *transmit.Driver, prefix string) *Trigger {
	if prefix == "" {
		prefix = config.DefaultMQTTPrefix
	}
	return &Trigger{
		Registry: registry,
		Driver:   driver,
		Prefix:   prefix,
	}
}

// SendTopic returns the request topic
func (t *Trigger) SendTopic() string {
	return t.Prefix + "/" + SendSuffix
}

// ResultTopic returns the result topic
func (t *Trigger) ResultTopic() string {
	return t.Prefix + "/" + ResultSuffix
}

// Run connects to the broker, subscribes, and handles requests until ctx
// is cancelled.
func (t *Trigger) Run(ctx context.Context, opts *paho.ClientOptions) error {
	opts.SetOnConnectHandler(func(c paho.Client) {
		logging.Info("Connected to MQTT broker", zap.String("topic", t.SendTopic()))
		token := c.Subscribe(t.SendTopic(), 1, func(c paho.Client, msg paho.Message) {
			t.onMessage(ctx, c, msg)
		})
		if token.WaitTimeout(connectTimeout) && token.Error() != nil {
			logging.Error("Failed to subscribe", zap.String("topic", t.SendTopic()), zap.Error(token.Error()))
		}
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logging.Warn("Lost connection to MQTT broker", zap.Error(err))
	})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return errors.New("timed out connecting to MQTT broker")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	<-ctx.Done()

	client.Disconnect(250)
	logging.Info("Disconnected from MQTT broker")
	return nil
}

func (t *Trigger) onMessage(ctx context.Context, client paho.Client, msg paho.Message) {
	logging.LogRawBytes("MQTT request", msg.Payload())

	result := t.HandleMessage(ctx, msg.Payload())
	data, err := json.Marshal(result)
	if err != nil {
		logging.Error("Failed to encode result", zap.Error(err))
		return
	}

	// Don't wait on the token: blocking inside a message handler stalls the client
	client.Publish(t.ResultTopic(), 0, false, data)
}

// HandleMessage decodes a request, transmits it, and reports the outcome
func (t *Trigger) HandleMessage(ctx context.Context, payload []byte) Result {
	var req SendRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return t.failed(Result{}, fmt.Errorf("malformed request: %w", err))
	}

	result := Result{ID: req.ID, Remote: req.Remote, Command: req.Command}

	cmd, timing, err := t.resolve(req)
	if err != nil {
		return t.failed(result, err)
	}

	timeout := t.SendTimeout
	if timeout == 0 {
		timeout = DefaultSendTimeout
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	t.mu.Lock()
	t.Driver.Timing = timing
	err = t.Driver.SendCommand(sendCtx, cmd)
	t.mu.Unlock()
	if err != nil {
		return t.failed(result, err)
	}

	result.OK = true
	result.Frames = len(cmd.Payloads)
	result.Time = time.Now()
	logging.Info("MQTT request sent",
		zap.String("id", req.ID),
		zap.String("remote", req.Remote),
		zap.String("command", req.Command),
		zap.Int("frames", result.Frames),
	)
	return result
}

// resolve turns a request into a command, either from the registry or raw
func (t *Trigger) resolve(req SendRequest) (aeha.Command, aeha.Timing, error) {
	raw := len(req.CustomerCode) > 0 || len(req.Payloads) > 0
	named := req.Remote != "" || req.Command != ""

	switch {
	case raw && named:
		return aeha.Command{}, aeha.Timing{}, errors.New("request must name a command or carry raw bytes, not both")
	case named:
		if t.Registry == nil {
			return aeha.Command{}, aeha.Timing{}, errors.New("no registry loaded")
		}
		return t.Registry.Command(req.Remote, req.Command)
	case raw:
		cmd := aeha.Command{CustomerCode: []byte(req.CustomerCode)}
		for _, p := range req.Payloads {
			cmd.Payloads = append(cmd.Payloads, []byte(p))
		}
		return cmd, aeha.DefaultTiming, nil
	default:
		return aeha.Command{}, aeha.Timing{}, errors.New("empty request")
	}
}

func (t *Trigger) failed(result Result, err error) Result {
	logging.Warn("MQTT request failed",
		zap.String("id", result.ID),
		zap.Error(err),
	)
	result.OK = false
	result.Error = err.Error()
	result.Time = time.Now()
	return result
}
