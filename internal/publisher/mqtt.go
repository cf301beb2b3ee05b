// internal/publisher/mqtt.go
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
)

// JobMessage is the MQTT payload announcing a decoded job
type JobMessage struct {
	JobID         string         `json:"job_id"`
	Source        string         `json:"source"`
	SourceType    string         `json:"source_type"`
	Table         string         `json:"table"`
	Status        string         `json:"status"`
	ByteCount     int            `json:"byte_count"`
	CommandCount  int            `json:"command_count"`
	UnknownCount  int            `json:"unknown_count"`
	PaperLengthMM string         `json:"paper_length_mm"`
	Text          string         `json:"text"`
	Summary       map[string]int `json:"summary"`
	CreatedAt     time.Time      `json:"created_at"`
}

// MQTTPublisher publishes decoded jobs to <topic>/<source>
type MQTTPublisher struct {
	client  paho.Client
	config  *config.MQTTConfig
	logger  *zap.Logger
	timeout time.Duration
}

// NewMQTTPublisher connects to the configured broker
func NewMQTTPublisher(cfg *config.MQTTConfig, logger *zap.Logger) (*MQTTPublisher, error) {
	logger = logger.With(zap.String("component", "mqtt"), zap.String("broker", cfg.Broker))

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Warn("MQTT connection lost", zap.Error(err))
		}).
		SetOnConnectHandler(func(_ paho.Client) {
			logger.Info("MQTT connected")
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return newMQTTPublisher(client, cfg, logger, timeout), nil
}

func newMQTTPublisher(client paho.Client, cfg *config.MQTTConfig, logger *zap.Logger, timeout time.Duration) *MQTTPublisher {
	return &MQTTPublisher{
		client:  client,
		config:  cfg,
		logger:  logger,
		timeout: timeout,
	}
}

// Topic returns the topic jobs from source are published on
func (p *MQTTPublisher) Topic(source string) string {
	source = strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(source)
	return strings.TrimSuffix(p.config.Topic, "/") + "/" + source
}

// PublishJob publishes one decoded job
func (p *MQTTPublisher) PublishJob(ctx context.Context, result *model.DecodeResult) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	payload, err := json.Marshal(NewJobMessage(result))
	if err != nil {
		return fmt.Errorf("failed to encode job message: %w", err)
	}

	topic := p.Topic(result.Job.Source)
	token := p.client.Publish(topic, p.config.QoS, false, payload)

	wait := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < wait {
			wait = d
		}
	}
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.logger.Debug("Job published", zap.String("topic", topic), zap.Int("bytes", len(payload)))
	return nil
}

// Close disconnects from the broker
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// NewJobMessage builds the MQTT payload for result
func NewJobMessage(result *model.DecodeResult) *JobMessage {
	job := result.Job
	sum := result.Summary
	return &JobMessage{
		JobID:         job.ID.String(),
		Source:        job.Source,
		SourceType:    string(job.SourceType),
		Table:         job.TableName,
		Status:        string(job.Status),
		ByteCount:     job.ByteCount,
		CommandCount:  job.CommandCount,
		UnknownCount:  job.UnknownCount,
		PaperLengthMM: job.PaperLengthMM.String(),
		Text:          sum.Text,
		Summary: map[string]int{
			"images":     sum.Images,
			"barcodes":   sum.Barcodes,
			"codes_2d":   sum.Codes2D,
			"shapes":     sum.Shapes,
			"cuts":       sum.Cuts,
			"feed_lines": sum.FeedLines,
		},
		CreatedAt: job.CreatedAt,
	}
}
