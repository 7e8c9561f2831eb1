package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	"github.com/lostact/osdlyrics/internal/app"
	"github.com/rs/zerolog/log"

	"github.com/rabbitmq/amqp091-go"
)

type consumerHandler func(ctx context.Context, msg amqp091.Delivery)

type consumerMapping struct {
	Mu   sync.Mutex
	Data map[string]consumerHandler
}

var cm = &consumerMapping{Mu: sync.Mutex{}, Data: map[string]consumerHandler{}}

func RegisterConsumer(h consumerHandler, routingKey string) {
	cm.Mu.Lock()
	defer cm.Mu.Unlock()
	cm.Data[routingKey] = h
}

func routingKeys() []string {
	cm.Mu.Lock()
	defer cm.Mu.Unlock()

	keys := make([]string, 0, len(cm.Data))
	for routingKey := range cm.Data {
		keys = append(keys, routingKey)
	}

	return keys
}

// dispatch runs the handler registered for the routing key of msg and
// reports whether one was found. Handlers run on the consume loop so
// deliveries are processed in the order the broker sent them.
func dispatch(ctx context.Context, msg amqp091.Delivery) bool {
	cm.Mu.Lock()
	handler, ok := cm.Data[msg.RoutingKey]
	cm.Mu.Unlock()

	if !ok {
		log.Debug().Msgf("No handler registered for routing key %s. Message acknowledge but no action taken", msg.RoutingKey)
		return false
	}

	handler(ctx, msg)

	return true
}

func initializeConsumers(ctx context.Context, channel *amqp091.Channel) error {
	q, err := channel.QueueDeclare(
		fmt.Sprintf("osdlyrics-%s", app.GetApp().Config.Name), // name
		true,  // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	for _, routingKey := range routingKeys() {
		log.Debug().Msgf("Setting up consumer for routing key %s", routingKey)

		err = channel.QueueBind(
			q.Name,     // queue name
			routingKey, // routing key
			exchangeName,
			false,
			nil)
		if err != nil {
			return err
		}

	}

	msgs, err := channel.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto ack
		false,  // exclusive
		false,  // no local
		false,  // no wait
		nil,    // args
	)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			msg.Ack(false)

			log.Debug().Msgf("Handling message for routing key %s", msg.RoutingKey)

			dispatch(context.Background(), msg)
		}
	}()

	return nil
}
