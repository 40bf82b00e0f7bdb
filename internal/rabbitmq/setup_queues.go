package rabbitmq

// Exchange es el exchange de eventos de pago del marketplace.
const Exchange = "pagos"

// RoutingKeyPaymentCompleted enruta los eventos de pago reconciliado.
const RoutingKeyPaymentCompleted = "completado"

// QueuePaymentReceipts es la cola que consume el enviador de recibos.
const QueuePaymentReceipts = "pagos.recibos"

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetPaymentQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueuePaymentReceipts, RoutingKey: RoutingKeyPaymentCompleted},
	}
}
