package analytics

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Recorder is the engine's view of the analytics collaborator. Calls are
// fire-and-forget: results are never read back and failures never reach the
// render path.
type Recorder interface {
	RecordView(pageID, variantID string)
	RecordClick(pageID, blockID string)
	Close()
}

// Event is one page view or block click, tagged with the experiment variant
// that was on screen when it happened.
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	PageID    string `json:"pageId"`
	VariantID string `json:"variantId,omitempty"`
	BlockID   string `json:"blockId,omitempty"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

const (
	EventView  = "page.view"
	EventClick = "page.click"

	sourceName = "page-engine"
)

// Publisher ships events to RabbitMQ first and Kafka second, matching the
// platform's click pipeline. With neither configured it just logs.
type Publisher struct {
	rabbit      *rabbitPublisher
	kafkaWriter *kafka.Writer
}

type Config struct {
	RabbitMQURL  string
	KafkaBrokers string
}

func NewPublisher(cfg Config) *Publisher {
	p := &Publisher{}

	if cfg.RabbitMQURL != "" {
		p.rabbit = newRabbitPublisher(cfg.RabbitMQURL)
	}

	if cfg.KafkaBrokers != "" {
		p.kafkaWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers),
			Topic:        "page-events",
			Balancer:     &kafka.LeastBytes{},
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			Async:        true,
		}
	}

	return p
}

func (p *Publisher) RecordView(pageID, variantID string) {
	p.publish(Event{Type: EventView, PageID: pageID, VariantID: variantID}, ViewRecordedKey)
}

func (p *Publisher) RecordClick(pageID, blockID string) {
	p.publish(Event{Type: EventClick, PageID: pageID, BlockID: blockID}, ClickRecordedKey)
}

func (p *Publisher) publish(event Event, routingKey string) {
	event.ID = uuid.New().String()
	event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	event.Source = sourceName

	delivered := false

	if p.rabbit != nil && p.rabbit.IsConnected() {
		if err := p.rabbit.Publish(routingKey, event); err != nil {
			log.Printf("Failed to publish to RabbitMQ: %v", err)
		} else {
			delivered = true
		}
	}

	if p.kafkaWriter != nil {
		p.sendToKafka(event)
		delivered = true
	}

	if !delivered {
		log.Printf("Event recorded (no messaging): type=%s page=%s variant=%s block=%s",
			event.Type, event.PageID, event.VariantID, event.BlockID)
	}
}

func (p *Publisher) sendToKafka(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return
	}

	err = p.kafkaWriter.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(event.PageID),
			Value: data,
		},
	)
	if err != nil {
		log.Printf("Failed to send event to Kafka: %v", err)
	}
}

func (p *Publisher) Close() {
	if p.rabbit != nil {
		p.rabbit.Close()
	}
	if p.kafkaWriter != nil {
		p.kafkaWriter.Close()
	}
}

// Noop discards events; handy in tests and preview renders.
type Noop struct{}

func (Noop) RecordView(string, string)  {}
func (Noop) RecordClick(string, string) {}
func (Noop) Close()                     {}
