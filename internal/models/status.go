package models

import "strings"

// RequestState enumerates the reservation lifecycle states.
type RequestState string

const (
	StatePending  RequestState = "pendiente"
	StateApproved RequestState = "aprobado"
	StateRejected RequestState = "rechazado"
	StateVoided   RequestState = "anulado"
)

// stateAliases maps legacy feminine spellings still sent by old clients onto
// the canonical states. Normalisation happens only at the boundary; stored
// rows always carry canonical values.
var stateAliases = map[string]RequestState{
	"aprobada":  StateApproved,
	"rechazada": StateRejected,
}

// ParseRequestState normalises raw input into a canonical state. The second
// return value reports whether the input named a known state.
func ParseRequestState(raw string) (RequestState, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := stateAliases[normalized]; ok {
		return alias, true
	}
	switch RequestState(normalized) {
	case StatePending, StateApproved, StateRejected, StateVoided:
		return RequestState(normalized), true
	}
	return "", false
}

// ResourceKind identifies which catalog a reservation draws from.
type ResourceKind string

const (
	KindRoom      ResourceKind = "sala"
	KindProjector ResourceKind = "videoproyector"
	KindEquipment ResourceKind = "equipo"
)

// Service describes a requested service: a room, a projector, or a typed
// equipment item identified by its equipment-type key.
type Service struct {
	Raw           string
	Kind          ResourceKind
	EquipmentType string
}

// ServiceFor classifies a raw servicio value. Anything that is not a room or
// projector request is treated as an equipment-type key; whether the key is
// actually registered is checked by the caller against the type catalog.
func ServiceFor(raw string) Service {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case string(KindRoom):
		return Service{Raw: normalized, Kind: KindRoom}
	case string(KindProjector):
		return Service{Raw: normalized, Kind: KindProjector}
	default:
		return Service{Raw: normalized, Kind: KindEquipment, EquipmentType: normalized}
	}
}

// ResourceState enumerates the static availability states of catalog rows.
type ResourceState string

const (
	ResourceAvailable   ResourceState = "disponible"
	ResourceOccupied    ResourceState = "ocupada"
	ResourceMaintenance ResourceState = "mantenimiento"
	ResourceInactive    ResourceState = "inactivo"
)

// ParseResourceState validates a raw catalog state value.
func ParseResourceState(raw string) (ResourceState, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch ResourceState(normalized) {
	case ResourceAvailable, ResourceOccupied, ResourceMaintenance, ResourceInactive:
		return ResourceState(normalized), true
	}
	return "", false
}
