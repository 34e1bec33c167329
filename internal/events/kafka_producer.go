package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

const (
	queueSize    = 1000
	writeTimeout = 10 * time.Second
)

// KafkaWriter is the subset of kafka.Writer the producer uses.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes events to Kafka from a single background goroutine.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var _ Publisher = (*Producer)(nil)

// NewProducer creates a producer writing to topic on brokers. The topic is
// created on first write when the cluster allows it.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	return newProducer(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}, logger)
}

func newProducer(writer KafkaWriter, logger *zap.Logger) *Producer {
	p := &Producer{
		writer:    writer,
		events:    make(chan Event, queueSize),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// Publish enqueues an event, dropping it with a warning when the queue is full.
func (p *Producer) Publish(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.Uint("employee_id", event.EmployeeID),
			zap.Uint("company_id", event.CompanyID),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(event)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

// drain flushes events queued before Close.
func (p *Producer) drain() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(event)
		default:
			return
		}
	}
}

func (p *Producer) sendEvent(event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event", zap.Error(err), zap.String("event_type", string(event.Type)))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: eventKey(event), Value: value}); err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
		)
	}
}

// eventKey keeps every event of one employee (or company) on one partition.
func eventKey(event Event) []byte {
	if event.EmployeeID != 0 {
		return []byte("employee-" + strconv.FormatUint(uint64(event.EmployeeID), 10))
	}
	return []byte("company-" + strconv.FormatUint(uint64(event.CompanyID), 10))
}

// Close stops the event loop after flushing queued events and closes the writer.
func (p *Producer) Close() {
	p.closeOnce.Do(func() {
		close(p.closeChan)
		<-p.done
		if err := p.writer.Close(); err != nil {
			p.logger.Error("Failed to close Kafka writer", zap.Error(err))
		}
	})
}

// NewPublisher returns a Kafka producer when brokers are configured and a
// NopPublisher otherwise.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) Publisher {
	if len(brokers) == 0 {
		logger.Info("no kafka brokers configured, events disabled")
		return NopPublisher{}
	}
	return NewProducer(brokers, topic, logger)
}
