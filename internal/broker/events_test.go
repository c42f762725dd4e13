package broker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

type ackRecorder struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked = true; return nil }

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

type handlerFunc func(context.Context, domain.ImportEvent) error

func (f handlerFunc) HandleImportCompleted(ctx context.Context, e domain.ImportEvent) error {
	return f(ctx, e)
}

func testBroker() *EventBroker {
	return &EventBroker{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		events: make(chan *eventStu),
		done:   make(chan struct{}),
	}
}

func TestImportRoutingKey(t *testing.T) {
	id := uuid.MustParse("6f1c2a34-0000-4000-8000-000000000001")
	if got := importRoutingKey(id); got != "import.completed.6f1c2a34-0000-4000-8000-000000000001" {
		t.Errorf("routing key = %q", got)
	}
}

func TestHandleAcknowledges(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		redelivered bool
		handlerErr  error
		wantAck     bool
		wantRequeue bool
		wantHandled bool
	}{
		{name: "ok", body: `{"user_id":"u-1","trips_imported":3}`, wantAck: true, wantHandled: true},
		{name: "malformed", body: `{`},
		{name: "handler fails", body: `{"user_id":"u-1"}`, handlerErr: errors.New("db down"), wantRequeue: true, wantHandled: true},
		{name: "handler fails again", body: `{"user_id":"u-1"}`, redelivered: true, handlerErr: errors.New("db down"), wantHandled: true},
	}

	for _, tt := range tests {
		ack := &ackRecorder{}
		msg := newEvent(amqp091.Delivery{Acknowledger: ack, Body: []byte(tt.body), Redelivered: tt.redelivered})
		handled := false
		h := handlerFunc(func(_ context.Context, e domain.ImportEvent) error {
			handled = true
			if e.UserID != "u-1" {
				t.Errorf("%s: event = %+v", tt.name, e)
			}
			return tt.handlerErr
		})

		testBroker().handle(context.Background(), msg, h)

		if ack.acked != tt.wantAck || ack.requeued != tt.wantRequeue || handled != tt.wantHandled {
			t.Errorf("%s: acked=%v requeued=%v handled=%v", tt.name, ack.acked, ack.requeued, handled)
		}
		if !tt.wantAck && !ack.nacked {
			t.Errorf("%s: message neither acked nor nacked", tt.name)
		}
	}
}

func TestConsumeImportsStopsWithContext(t *testing.T) {
	b := testBroker()
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan domain.ImportEvent, 1)
	done := make(chan struct{})

	go func() {
		b.ConsumeImports(ctx, handlerFunc(func(_ context.Context, e domain.ImportEvent) error {
			got <- e
			return nil
		}))
		close(done)
	}()

	b.events <- newEvent(amqp091.Delivery{Acknowledger: &ackRecorder{}, Body: []byte(`{"user_id":"u-7","trips_imported":2}`)})
	select {
	case e := <-got:
		if e.UserID != "u-7" || e.TripsImported != 2 {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("event not handled")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestForwardReturnsAfterClose(t *testing.T) {
	b := testBroker()
	msgs := make(chan amqp091.Delivery, 2)
	msgs <- amqp091.Delivery{Body: []byte(`{"user_id":"u-1"}`)}
	msgs <- amqp091.Delivery{Body: []byte(`{"user_id":"u-2"}`)}
	done := make(chan struct{})

	go func() {
		b.forward(msgs)
		close(done)
	}()

	select {
	case e := <-b.events:
		if string(e.Body) != `{"user_id":"u-1"}` {
			t.Errorf("first delivery = %s", e.Body)
		}
	case <-time.After(time.Second):
		t.Fatal("delivery not forwarded")
	}

	// nobody reads the second delivery
	if err := b.CloseRabbit(); err != nil {
		t.Fatalf("CloseRabbit: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder still blocked after close")
	}
	if err := b.CloseRabbit(); err != nil {
		t.Errorf("second CloseRabbit: %v", err)
	}
}

func TestConsumeImportsStopsOnClose(t *testing.T) {
	b := testBroker()
	done := make(chan struct{})
	go func() {
		b.ConsumeImports(context.Background(), handlerFunc(func(context.Context, domain.ImportEvent) error { return nil }))
		close(done)
	}()

	_ = b.CloseRabbit()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}
