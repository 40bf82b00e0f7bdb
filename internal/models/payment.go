package models

import "time"

// Métodos de pago aceptados.
const (
	PaymentMethodPayPal      = "paypal"
	PaymentMethodMercadoPago = "mercado_pago"
)

// PaymentStatusCompleted es el único estado que se persiste: las filas de
// pagos son append-only y solo se escriben tras la captura del proveedor.
const PaymentStatusCompleted = "completado"

// Payment representa un pago registrado. MembershipPlanID es nil cuando el
// pago corresponde a artículos del carrito y no a una membresía.
type Payment struct {
	ID               int       `json:"id"`
	UserUID          string    `json:"usuario_uid"`
	MembershipPlanID *int      `json:"membresia_id,omitempty"`
	Amount           int       `json:"monto"`
	Method           string    `json:"metodo"` // paypal | mercado_pago
	Status           string    `json:"estado"`
	TransactionID    *string   `json:"transaccion_id,omitempty"`
	CreatedAt        time.Time `json:"fecha"`
}

// DownloadGrant marca el derecho permanente de un usuario sobre un artículo,
// ganado por precio cero, compra directa o acceso por membresía al momento
// de la descarga. La pareja (usuario, artículo) es única.
type DownloadGrant struct {
	ID        int
	UserUID   string
	ItemID    int
	CreatedAt time.Time
}
