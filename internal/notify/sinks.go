package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
)

// ===============================
// Log
// ===============================

type LogSink struct {
	log *zerolog.Logger
}

func NewLogSink(log *zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(ctx context.Context, ev domain.Event) error {
	ap := ev.View.Appointment
	s.log.Info().
		Str("event_id", ev.ID).
		Str("event_type", string(ev.Type)).
		Uint("tenant_id", ap.TenantID).
		Uint("appointment_id", ap.ID).
		Str("client_phone", ev.View.Client.Phone).
		Str("employee", ev.View.Employee.Name).
		Time("start_time", ap.StartTime).
		Msg("Booking notification")
	return nil
}

// ===============================
// Webhook
// ===============================

// WebhookSink posts the event as JSON. A tenant webhook URL takes precedence
// over the global one; with neither configured the event is skipped.
type WebhookSink struct {
	url    string
	token  string
	client *http.Client
}

func NewWebhookSink(url, token string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSink{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Send(ctx context.Context, ev domain.Event) error {
	target := ev.View.Tenant.WebhookURL
	if target == "" {
		target = s.url
	}
	if target == "" {
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Id", ev.ID)
	req.Header.Set("X-Event-Type", string(ev.Type))
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// ===============================
// Kafka
// ===============================

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes to one topic keyed by appointment id, so every event
// of an appointment lands on the same partition.
type KafkaSink struct {
	writer messageWriter
}

func NewKafkaSink(brokers, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(SplitBrokers(brokers)...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(ev.View.Appointment.ID), 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(ev.ID)},
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func SplitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
