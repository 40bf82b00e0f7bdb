package models

// PaymentCompletedEvent se publica en RabbitMQ tras reconciliar un pago.
// El enviador de recibos lo consume para mandar el correo de confirmación.
type PaymentCompletedEvent struct {
	PaymentID   int    `json:"payment_id"`
	UserUID     string `json:"user_uid"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Amount      int    `json:"amount"`
	Method      string `json:"method"`
	Description string `json:"description"`
}
