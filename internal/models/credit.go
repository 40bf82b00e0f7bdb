package models

import "time"

// MovementTypeReferralSignup etiqueta el movimiento de crédito que se
// genera cuando un referido completa su primer login.
const MovementTypeReferralSignup = "referido_registrado"

// CreditMovement es una entrada del libro mayor de créditos, append-only.
// El saldo vigente vive como contador desnormalizado en la fila del usuario
// y se actualiza con un incremento atómico en SQL.
type CreditMovement struct {
	ID          int       `json:"id"`
	UserUID     string    `json:"usuario_uid"`
	Type        string    `json:"tipo"`
	Amount      int       `json:"monto"`
	Description string    `json:"descripcion"`
	CreatedAt   time.Time `json:"fecha"`
}
