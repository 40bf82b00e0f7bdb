package models

import "time"

// CartEntry representa una línea del carrito de compras persistida por
// usuario. La cantidad existe en el esquema pero los flujos observados
// siempre la tratan como 1; añadir dos veces el mismo artículo no crea
// una segunda fila ni incrementa la cantidad.
type CartEntry struct {
	ID       int       `json:"id"`
	UserUID  string    `json:"usuario_uid"`
	ItemID   int       `json:"producto_id"`
	Name     string    `json:"nombre"` // Nombre del artículo al momento de añadirlo
	Price    int       `json:"precio"` // Precio al momento de añadirlo
	Kind     string    `json:"tipo"`   // archivo | producto
	Quantity int       `json:"cantidad"`
	AddedAt  time.Time `json:"agregado_at"`
}

// CartTotal suma el precio de las líneas del carrito. La cantidad se trata
// siempre como 1, siguiendo la semántica observada del storefront.
func CartTotal(entries []*CartEntry) int {
	var total int
	for _, e := range entries {
		total += e.Price
	}
	return total
}
