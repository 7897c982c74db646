// Package amqp implements the message broker interface for AMQP compliant brokers (ie RabbitMQ)
package amqp

import (
	"encoding/json"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/BaR488/Raiblocks.Api/lib/msg"
)

// Exchange and queue names.
const (
	ExchangeRequests = "or" // observation requests, published by the api service
	ExchangeEvents   = "be" // balance events, published by the refresher
	QueueRequests    = "or-refresher"
	QueueEvents      = "be-api"
)

// Amqp implements a connection to a broker and a channel for reuse.
type Amqp struct {
	conn *amqp.Connection
	mu   sync.Mutex
	ch   *amqp.Channel
	log  *zap.Logger
}

// New instantiates a new amqp broker.
func New(uri string, logger *zap.Logger) (*Amqp, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Amqp{log: logger.Named("amqp")}

	var err error
	if r.conn, err = amqp.Dial(uri); err != nil {
		return nil, err
	}
	r.log.Info("connected to message broker")

	return r, nil
}

// Setup obtains an amqp channel and declares the message broker exchanges:
//
// - or ("observation requests"): the api service publishes listen/unlisten requests to this exchange
//
// - be ("balance events"): the refresher publishes balance changes to this exchange
func (r *Amqp) Setup() error {
	// obtain a one-use channel
	channel, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer channel.Close()
	// declare exchanges
	if err = channel.ExchangeDeclare(ExchangeRequests, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	return channel.ExchangeDeclare(ExchangeEvents, "topic", true, false, false, false, nil)
}

// Close terminates gracefully the connection to the AMQP message broker
func (r *Amqp) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil {
		if err := r.ch.Close(); err != nil {
			r.log.Warn("error closing amqp channel", zap.Error(err))
		}
		r.ch = nil
	}
	return r.conn.Close()
}

// channel returns the shared channel, obtaining it if not present.
func (r *Amqp) channel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch == nil {
		ch, err := r.conn.Channel()
		if err != nil {
			return nil, err
		}
		r.ch = ch
	}
	return r.ch, nil
}

func (r *Amqp) publish(exchange, key string, v interface{}) error {
	// marshal to JSON
	jsonDoc, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ch, err := r.channel()
	if err != nil {
		return err
	}

	return ch.Publish(exchange, key, false, false, amqp.Publishing{
		Headers:     amqp.Table{"x-name": key},
		Body:        jsonDoc,
		ContentType: "application/json",
	})
}

// SendRequest publishes an observation request to the "or" exchange with routing key <act>.<address>.
func (r *Amqp) SendRequest(req msg.ObservationReq) error {
	err := r.publish(ExchangeRequests, msg.ActName(req.Act)+"."+req.Address, req)
	if err != nil {
		r.log.Error("error sending request to message broker", zap.String("address", req.Address), zap.Error(err))
	}
	return err
}

// SendBalances publishes balance events to the "be" exchange with routing key balance.<address>.
func (r *Amqp) SendBalances(evs []msg.BalanceEvent) error {
	for _, e := range evs {
		if err := r.publish(ExchangeEvents, "balance."+e.Address, e); err != nil {
			r.log.Error("error sending balance event to message broker", zap.String("address", e.Address), zap.Error(err))
			return err
		}
	}
	return nil
}

// consume declares a durable queue bound to exchange and returns its deliveries.
func (r *Amqp) consume(queue, exchange, consumer string) (<-chan amqp.Delivery, error) {
	ch, err := r.channel()
	if err != nil {
		return nil, err
	}
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	// bind queue to exchange
	if err = ch.QueueBind(queue, "#", exchange, false, nil); err != nil {
		return nil, err
	}
	return ch.Consume(queue, consumer, false, false, false, false, nil)
}

// GetEvents consumes balance events from the "be" exchange pushing them to the returned channel. The Mutex pointer is provided to ensure the consumed message has been fully dealt with by the management function, so the message consumed is only acknowledged when the mutex is unlocked.
func (r *Amqp) GetEvents(mut *sync.Mutex) (<-chan msg.BalanceEvent, <-chan error, error) {
	msgs, err := r.consume(QueueEvents, ExchangeEvents, "api")
	if err != nil {
		return nil, nil, err
	}
	// define channels to return
	eves := make(chan msg.BalanceEvent)
	errs := make(chan error)
	// start routine to consume messages from broker
	go func() {
		defer close(eves)
		for m := range msgs {
			var e msg.BalanceEvent
			if err := json.Unmarshal(m.Body, &e); err != nil {
				errs <- err
				_ = m.Nack(false, false)
				continue
			}
			eves <- e
			mut.Lock() // wait for the api service to finish processing the event
			_ = m.Ack(false)
		}
	}()
	return eves, errs, nil
}

// GetReqs consumes observation requests from the "or" exchange pushing them to the returned channel. The Mutex pointer is provided to ensure the consumed message has been fully dealt with by the management function, so the message consumed is only acknowledged when the mutex is unlocked.
func (r *Amqp) GetReqs(mut *sync.Mutex) (<-chan msg.ObservationReq, <-chan error, error) {
	msgs, err := r.consume(QueueRequests, ExchangeRequests, "refresher")
	if err != nil {
		return nil, nil, err
	}
	// define channels to return
	reqs := make(chan msg.ObservationReq)
	errs := make(chan error)
	// start routine to consume messages from broker
	go func() {
		defer close(reqs)
		for m := range msgs {
			var req msg.ObservationReq
			if err := json.Unmarshal(m.Body, &req); err != nil {
				errs <- err
				_ = m.Nack(false, false)
				continue
			}
			reqs <- req
			mut.Lock() // wait for the refresher to finish processing the request
			_ = m.Ack(false)
		}
	}()
	return reqs, errs, nil
}
