package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lostact/osdlyrics/internal/app"
	"github.com/rabbitmq/amqp091-go"
)

type connectionEnv struct {
	Connection *amqp091.Connection
	Channel    *amqp091.Channel
}

const (
	connectionString = "amqp://%s:%s@%s:%d/"
	exchangeName     = "osdlyrics-exch"
)

var (
	env = connectionEnv{}

	errNotConnected = errors.New("rabbitmq channel was never initialized")
)

func Setup(ctx context.Context) error {
	rabbitCfg := app.GetApp().Config.Rabbit
	var err error
	env.Connection, err = amqp091.Dial(fmt.Sprintf(connectionString, rabbitCfg.Username, rabbitCfg.Password, rabbitCfg.Address, rabbitCfg.Port))
	if err != nil {
		return err
	}

	env.Channel, err = env.Connection.Channel()
	if err != nil {
		return err
	}

	err = env.Channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)

	if err != nil {
		return err
	}

	return initializeConsumers(ctx, env.Channel)
}

func newPublishing(messageBody interface{}) (amqp091.Publishing, error) {
	body, err := json.Marshal(messageBody)
	if err != nil {
		return amqp091.Publishing{}, err
	}

	return amqp091.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.NewString(),
		Body:        body,
	}, nil
}

func PublishMessage(ctx context.Context, routingKey string, messageBody interface{}) error {
	if env.Channel == nil {
		return errNotConnected
	}

	msg, err := newPublishing(messageBody)
	if err != nil {
		return err
	}

	return env.Channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, msg)
}

func Cleanup() {
	if env.Channel != nil {
		env.Channel.Close()
	}

	if env.Connection != nil {
		env.Connection.Close()
	}
}
