package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const catalogLogFile = "logs/catalog.log"

// StartCatalogConsumer connects to RabbitMQ, declares the catalog queue and
// appends every event to logs/catalog.log in a single-line format. It runs a
// reconnect loop with exponential backoff and never returns under normal
// operation; run it in its own goroutine.
func StartCatalogConsumer(url string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("catalog-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("catalog-consumer: consume loop ended: %v; reconnecting", err)
		}
		_ = conn.Close()
		time.Sleep(time.Second)
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(CatalogQueueName, true, false, false, false, nil); err != nil {
		return err
	}
	deliveries, err := ch.Consume(CatalogQueueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for d := range deliveries {
		if err := appendToLog(catalogLogFile, d.Body); err != nil {
			log.Printf("catalog-consumer: failed to process message: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

func appendToLog(path string, body []byte) error {
	var event CatalogEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s %s movie=%d", event.OccurredAt, event.Kind, event.MovieID)
	if event.ShowID != 0 {
		line += fmt.Sprintf(" show=%d room=%q", event.ShowID, event.Room)
	}
	if event.ImdbID != "" {
		line += fmt.Sprintf(" imdb=%s name=%q", event.ImdbID, event.Name)
	}
	_, err = fmt.Fprintln(f, line)
	return err
}
