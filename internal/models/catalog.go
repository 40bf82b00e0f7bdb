package models

import "time"

// Tipos de artículo del catálogo: archivo digital o producto físico.
const (
	ItemKindFile    = "archivo"
	ItemKindProduct = "producto"
)

// CatalogItem representa un artículo del catálogo (archivo de corte láser
// o producto físico). Precio 0 significa descarga gratuita.
type CatalogItem struct {
	ID            int       `json:"id"`
	Name          string    `json:"nombre"`
	Description   string    `json:"descripcion"`
	Price         int       `json:"precio"` // Precio en la unidad mínima de la moneda; 0 = gratis
	Kind          string    `json:"tipo"`   // archivo | producto
	CategoryID    int       `json:"categoria_id"`
	SubcategoryID *int      `json:"subcategoria_id,omitempty"`
	CreatorUID    string    `json:"creador_uid"`
	ObjectKey     string    `json:"archivo_url"` // Clave del objeto en el almacenamiento externo
	Images        []string  `json:"imagenes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// DummyCatalogItem recibe los datos de un artículo nuevo desde la petición JSON.
type DummyCatalogItem struct {
	Name          string   `json:"nombre" validate:"required"`
	Description   string   `json:"descripcion" validate:"omitempty"`
	Price         int      `json:"precio" validate:"gte=0"`
	Kind          string   `json:"tipo" validate:"required,oneof=archivo producto"`
	CategoryID    int      `json:"categoria_id" validate:"required,gt=0"`
	SubcategoryID *int     `json:"subcategoria_id,omitempty" validate:"omitempty,gt=0"`
	ObjectKey     string   `json:"archivo_url" validate:"required"`
	Images        []string `json:"imagenes,omitempty"`
}

// Category representa una categoría del catálogo.
type Category struct {
	ID   int
	Name string
}
