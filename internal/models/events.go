package models

import "time"

// Lifecycle event names published to listeners.
const (
	EventReservationCreated       = "solicitud_creada"
	EventReservationStatusChanged = "solicitud_estado_actualizado"
	EventReservationUpdated       = "solicitud_actualizada"
	EventReservationDeleted       = "solicitud_eliminada"
)

// LifecycleEvent is the fan-out payload emitted after reservation mutations.
// Delivery is best-effort; consumers must tolerate gaps.
type LifecycleEvent struct {
	ID            string       `json:"id"`
	Name          string       `json:"evento"`
	ReservationID int64        `json:"id_solicitud"`
	Estado        RequestState `json:"estado_reserva"`
	Resource      *ResourceRef `json:"recurso,omitempty"`
	EmittedAt     time.Time    `json:"emitted_at"`
}
