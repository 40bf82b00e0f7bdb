// Package mercadopago define el contrato de creación de preferencias de
// Mercado Pago. La integración original solo existía como un stub con
// credenciales de relleno y un flujo de éxito simulado; aquí el contrato
// queda definido y la implementación pendiente: CreatePreference devuelve
// siempre ErrNotImplemented y la ruta HTTP responde 501. No se simula
// ningún pago exitoso.
package mercadopago

import (
	"context"
	"errors"
)

// ErrNotImplemented indica que la integración con Mercado Pago está
// pendiente de un backend real.
var ErrNotImplemented = errors.New("mercado pago integration is not implemented")

// Item artículo de una preferencia de pago.
type Item struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
}

// BackURLs URLs de retorno tras el pago.
type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
}

// Preference respuesta esperada de la creación de una preferencia.
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// Client cliente de la API de preferencias de Mercado Pago.
type Client struct{}

// NewClient crea el cliente. No recibe credenciales: no hay nada que
// configurar mientras la integración siga pendiente.
func NewClient() *Client {
	return &Client{}
}

// CreatePreference crearía una preferencia de pago con los artículos y las
// URLs de retorno dadas. Implementación pendiente.
func (c *Client) CreatePreference(_ context.Context, _ []Item, _ BackURLs) (*Preference, error) {
	return nil, ErrNotImplemented
}
