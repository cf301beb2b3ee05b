// internal/publisher/mqtt_test.go
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/escpos"
	"escpos-service/internal/model"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient implements the parts of paho.Client the publisher calls
type fakeClient struct {
	paho.Client
	connected bool
	err       error
	messages  []published
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.messages = append(c.messages, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return &fakeToken{err: c.err}
}

func testResult() *model.DecodeResult {
	return &model.DecodeResult{
		Job: &model.DecodeJob{
			ID:            uuid.New(),
			Source:        "till/1",
			SourceType:    model.SourceTypeTCP,
			TableName:     "escpos",
			Status:        model.JobStatusDecoded,
			ByteCount:     42,
			CommandCount:  7,
			PaperLengthMM: decimal.RequireFromString("25.4"),
			CreatedAt:     time.Now(),
		},
		Summary: escpos.Summary{Text: "TOTAL 5.00\n", Cuts: 1, FeedLines: 3},
	}
}

func TestPublishJob(t *testing.T) {
	client := &fakeClient{connected: true}
	cfg := &config.MQTTConfig{Topic: "escpos/jobs/", QoS: 1}
	p := newMQTTPublisher(client, cfg, zap.NewNop(), time.Second)

	result := testResult()
	require.NoError(t, p.PublishJob(context.Background(), result))
	require.Len(t, client.messages, 1)

	msg := client.messages[0]
	assert.Equal(t, "escpos/jobs/till_1", msg.topic)
	assert.Equal(t, byte(1), msg.qos)

	var body JobMessage
	require.NoError(t, json.Unmarshal(msg.payload, &body))
	assert.Equal(t, result.Job.ID.String(), body.JobID)
	assert.Equal(t, "25.4", body.PaperLengthMM)
	assert.Equal(t, "TOTAL 5.00\n", body.Text)
	assert.Equal(t, 1, body.Summary["cuts"])
}

func TestPublishJobErrors(t *testing.T) {
	cfg := &config.MQTTConfig{Topic: "escpos/jobs"}

	p := newMQTTPublisher(&fakeClient{}, cfg, zap.NewNop(), time.Second)
	assert.Error(t, p.PublishJob(context.Background(), testResult()))

	p = newMQTTPublisher(&fakeClient{connected: true, err: errors.New("not authorized")}, cfg, zap.NewNop(), time.Second)
	err := p.PublishJob(context.Background(), testResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorized")
}
