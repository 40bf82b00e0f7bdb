package paypal

// Estados de una orden en la API de órdenes v2 de PayPal.
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusApproved  = "APPROVED"
	OrderStatusCompleted = "COMPLETED"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Amount importe de una unidad de compra.
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// PurchaseUnit unidad de compra de la orden.
type PurchaseUnit struct {
	Amount Amount `json:"amount"`
}

// CreateOrderRequest petición de creación de orden.
type CreateOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// Capture captura individual dentro de la respuesta de captura.
type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// OrderResponse respuesta de la API de órdenes, tanto para la creación
// como para la captura.
type OrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []Capture `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureID devuelve el identificador de la primera captura de la orden,
// o la cadena vacía si no hay ninguna.
func (r *OrderResponse) CaptureID() string {
	for _, pu := range r.PurchaseUnits {
		for _, c := range pu.Payments.Captures {
			return c.ID
		}
	}
	return ""
}
