package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/studytrack/internal/config"
	"github.com/jgoulah/studytrack/pkg/models"
)

const publishTimeout = 10 * time.Second

// client is the subset of mqtt.Client the publisher uses
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher sends merged days to an MQTT broker
type Publisher struct {
	client      client
	topicPrefix string
	attempts    uint
	delay       time.Duration
	logger      *slog.Logger
}

// New connects to the configured broker
func New(cfg config.MQTTConfig, topicPrefix, clientID string, logger *slog.Logger) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, errors.New("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, errors.New("MQTT broker address is required when enabled")
	}

	// Configure MQTT client options
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	// Create and connect client
	c := mqtt.NewClient(opts)
	if token := c.Connect(); !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("connecting to MQTT broker %s: timed out", cfg.Broker)
	} else if token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return newWithClient(c, topicPrefix, logger), nil
}

func newWithClient(c client, topicPrefix string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client:      c,
		topicPrefix: topicPrefix,
		attempts:    3,
		delay:       time.Second,
		logger:      logger,
	}
}

// Payload is the retained message published per day
type Payload struct {
	Date           string  `json:"date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time,omitempty"`
	Steps          float64 `json:"steps"`
	CaloriesBurned float64 `json:"calories_burned"`
	Homework       int     `json:"homework"`
	Project        int     `json:"project"`
	Exam           int     `json:"exam"`
	WeeklyAssign   int     `json:"weekly_assign"`
	IsWeekend      bool    `json:"is_weekend"`
	IsBreak        bool    `json:"is_break"`
}

// Topic returns the topic a day is published under
func (p *Publisher) Topic(day models.DaySummary) string {
	return fmt.Sprintf("%s/daily/%s", p.topicPrefix, day.Date.Format("2006-01-02"))
}

// Publish sends a day as a retained QoS 1 message, retrying transient failures
func (p *Publisher) Publish(ctx context.Context, day models.DaySummary) error {
	payload := Payload{
		Date:           day.Date.Format("2006-01-02"),
		StartTime:      day.StartTime.Format(time.RFC3339),
		Steps:          day.Steps,
		CaloriesBurned: day.CaloriesBurned,
		Homework:       day.Homework,
		Project:        day.Project,
		Exam:           day.Exam,
		WeeklyAssign:   day.WeeklyAssign,
		IsWeekend:      day.IsWeekend,
		IsBreak:        day.IsBreak,
	}
	if !day.EndTime.IsZero() {
		payload.EndTime = day.EndTime.Format(time.RFC3339)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := p.Topic(day)
	err = retry.Do(
		func() error {
			token := p.client.Publish(topic, 1, true, body)
			if !token.WaitTimeout(publishTimeout) {
				return fmt.Errorf("publish to %s timed out", topic)
			}
			return token.Error()
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Debug("Retrying publish", "attempt", n+1, "topic", topic, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
