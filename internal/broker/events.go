package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/euRhuanOLiveira/Driverpro/pkg"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const (
	dashboardExchange = "dashboard_topic"
	refreshQueue      = "dashboard_refresh"
	importBindingKey  = "import.completed.*"
)

func importRoutingKey(profileID uuid.UUID) string {
	return fmt.Sprintf("import.completed.%s", profileID)
}

// EventBroker publishes import.completed events and consumes them back for
// ConsumeImports.
type EventBroker struct {
	logger    *slog.Logger
	events    chan *eventStu
	isClosed  atomic.Bool
	done      chan struct{}
	closeOnce sync.Once

	// mu guards the connection state replaced on reconnect.
	mu        sync.RWMutex
	conn      *amqp091.Connection
	connClose chan *amqp091.Error
	ch        *amqp091.Channel
}

func NewEventRabbit(cfg pkg.RabbitMQCfg, slogger *slog.Logger) (*EventBroker, error) {
	dsn := cfg.URL()
	myRab := &EventBroker{
		logger: slogger,
		events: make(chan *eventStu),
		done:   make(chan struct{}),
	}

	err := myRab.createChannel(dsn)
	if err != nil {
		return nil, err
	}

	go myRab.reconnectConn(dsn)
	return myRab, nil
}

func (r *EventBroker) CloseRabbit() error {
	r.isClosed.Store(true)
	r.closeOnce.Do(func() { close(r.done) })
	defer r.logger.Info("rabbit closed", "action", "close rabbitMQ")

	r.mu.RLock()
	conn := r.conn
	r.mu.RUnlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (r *EventBroker) reconnectConn(url string) {
	for {
		r.mu.RLock()
		connClose := r.connClose
		r.mu.RUnlock()

		<-connClose
		if r.isClosed.Load() {
			return
		}
		r.logger.Warn("rabbitMQ not working", "action", "reconnect rabbitMQ")
		for {
			if r.isClosed.Load() {
				return
			}
			r.logger.Info("trying to connect to rabbitmq", "action", "reconnect rabbitMQ")
			err := r.createChannel(url)
			if err != nil {
				time.Sleep(3 * time.Second)
				continue
			}
			r.logger.Info("connected to rabbitmq", "action", "reconnect rabbitMQ")
			break
		}
	}
}

func (r *EventBroker) createChannel(dsn string) error {
	myConn, err := amqp091.Dial(dsn)
	if err != nil {
		return err
	}
	connClose := myConn.NotifyClose(make(chan *amqp091.Error, 1))
	ch, err := myConn.Channel()
	if err != nil {
		return errors.Join(myConn.Close(), err)
	}

	err = ch.ExchangeDeclare(
		dashboardExchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		return errors.Join(myConn.Close(), err)
	}

	q, err := ch.QueueDeclare(refreshQueue, true, false, false, false, nil)
	if err != nil {
		return errors.Join(myConn.Close(), err)
	}
	err = ch.QueueBind(q.Name, importBindingKey, dashboardExchange, false, nil)
	if err != nil {
		return errors.Join(myConn.Close(), err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return errors.Join(myConn.Close(), err)
	}

	r.mu.Lock()
	r.conn = myConn
	r.connClose = connClose
	r.ch = ch
	r.mu.Unlock()

	go r.forward(msgs)
	return nil
}

// forward hands deliveries to ConsumeImports until msgs closes or the broker
// is closed.
func (r *EventBroker) forward(msgs <-chan amqp091.Delivery) {
	for msg := range msgs {
		select {
		case r.events <- newEvent(msg):
		case <-r.done:
			return
		}
	}
}

func (r *EventBroker) PublishImportCompleted(ctx context.Context, event domain.ImportEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	r.mu.RLock()
	ch := r.ch
	r.mu.RUnlock()

	return ch.PublishWithContext(ctx,
		dashboardExchange,
		importRoutingKey(event.ProfileID),
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.ImportedAt,
			Body:         b,
		},
	)
}

type eventStu struct {
	amqp091.Delivery
}

func newEvent(d amqp091.Delivery) *eventStu {
	return &eventStu{d}
}

func (e *eventStu) GiveBody() (*domain.ImportEvent, error) {
	event := new(domain.ImportEvent)
	err := json.Unmarshal(e.Body, event)
	if err != nil {
		return nil, err
	}
	return event, nil
}

type ImportHandler interface {
	HandleImportCompleted(ctx context.Context, event domain.ImportEvent) error
}

// ConsumeImports feeds consumed events to h until ctx ends. Malformed bodies
// are dropped; a failed handler requeues the message once.
func (r *EventBroker) ConsumeImports(ctx context.Context, h ImportHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case msg := <-r.events:
			r.handle(ctx, msg, h)
		}
	}
}

func (r *EventBroker) handle(ctx context.Context, msg *eventStu, h ImportHandler) {
	event, err := msg.GiveBody()
	if err != nil {
		r.logger.Error("cannot decode import event", "action", "consume import", "error", err)
		_ = msg.Nack(false, false)
		return
	}
	if err := h.HandleImportCompleted(ctx, *event); err != nil {
		r.logger.Error("cannot refresh dashboard", "action", "consume import", "profile_id", event.ProfileID, "error", err)
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
}
