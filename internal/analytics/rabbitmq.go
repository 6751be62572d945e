package analytics

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Exchange names
	PageEventsExchange = "page.events"

	// Routing keys
	ViewRecordedKey  = "page.view.recorded"
	ClickRecordedKey = "page.click.recorded"
)

type rabbitPublisher struct {
	url        string
	connection *amqp.Connection
	channel    *amqp.Channel

	mu        sync.Mutex
	connected bool
}

func newRabbitPublisher(url string) *rabbitPublisher {
	p := &rabbitPublisher{url: url}
	if err := p.connect(); err != nil {
		log.Printf("Warning: Failed to connect to RabbitMQ: %v. Service will continue without messaging.", err)
	}
	return p
}

func (p *rabbitPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	err = ch.ExchangeDeclare(
		PageEventsExchange, // name
		"topic",            // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	p.mu.Lock()
	p.connection = conn
	p.channel = ch
	p.connected = true
	p.mu.Unlock()

	log.Println("RabbitMQ connected and exchange configured")

	go p.handleReconnect(conn)

	return nil
}

func (p *rabbitPublisher) handleReconnect(conn *amqp.Connection) {
	closeNotify := conn.NotifyClose(make(chan *amqp.Error))

	for err := range closeNotify {
		log.Printf("RabbitMQ connection closed: %v. Attempting to reconnect...", err)
		p.mu.Lock()
		p.connected = false
		p.mu.Unlock()

		for i := 0; i < 10; i++ {
			time.Sleep(time.Duration(i+1) * time.Second)
			if err := p.connect(); err == nil {
				log.Println("RabbitMQ reconnected successfully")
				return
			}
			log.Printf("RabbitMQ reconnection attempt %d failed", i+1)
		}
		log.Println("Failed to reconnect to RabbitMQ after 10 attempts")
	}
}

func (p *rabbitPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *rabbitPublisher) Publish(routingKey string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	ch := p.channel
	p.mu.Unlock()

	return ch.Publish(
		PageEventsExchange, // exchange
		routingKey,         // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         data,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (p *rabbitPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.connection != nil {
		p.connection.Close()
	}
	p.connected = false
}
