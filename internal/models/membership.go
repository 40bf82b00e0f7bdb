package models

import "time"

// MembershipPlan representa un plan de membresía a la venta. El límite
// mensual de descargas puede ser nil, lo que significa descargas ilimitadas.
type MembershipPlan struct {
	ID            int    `json:"id"`
	Name          string `json:"nombre"`
	Price         int    `json:"precio"`
	DurationDays  int    `json:"duracion_dias"`
	DownloadLimit *int   `json:"limite_descargas,omitempty"` // nil = ilimitadas
	CategoryIDs   []int  `json:"categorias"`                 // Categorías a las que el plan da acceso
}

// MembershipGrant representa la instancia de suscripción de un usuario a un
// plan, con fechas de inicio y vencimiento. Como máximo una fila activa por
// usuario; el índice parcial único de la base de datos lo garantiza.
type MembershipGrant struct {
	ID        int
	UserUID   string
	PlanID    int
	StartDate time.Time
	ExpiresAt time.Time
	Active    bool
}

// ActiveAt indica si la membresía sigue vigente en el instante dado.
// Un vencimiento exactamente igual a now cuenta como no vencido, de modo
// que una renovación en ese instante apila la duración nueva.
func (g *MembershipGrant) ActiveAt(now time.Time) bool {
	return g.Active && !g.ExpiresAt.Before(now)
}
