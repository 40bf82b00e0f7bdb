package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publisher publica en el exchange de pagos sobre un canal ya configurado.
type Publisher struct {
	Ch *amqp.Channel
}

// Publish serializa el mensaje y lo publica con la clave de enrutado dada.
func (p *Publisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.Ch, Exchange, routingKey, message)
}

// PublishMessage publica un mensaje serializado en JSON en RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
