package models

import "strings"

// Room is a bookable audiovisual room. RolesPermitidos is a CSV of roles that
// may book the room; empty means every role is allowed.
type Room struct {
	ID              int64         `db:"id" json:"id"`
	Nombre          string        `db:"nombre" json:"nombre"`
	Ubicacion       string        `db:"ubicacion" json:"ubicacion"`
	Capacidad       int           `db:"capacidad" json:"capacidad"`
	Estado          ResourceState `db:"estado" json:"estado"`
	RolesPermitidos string        `db:"roles_permitidos" json:"roles_permitidos"`
}

// AllowsRole reports whether the room admits the given requester role.
// Administrators and unrestricted (unknown) requesters always pass.
func (r Room) AllowsRole(role string) bool {
	if role == "" || role == RoleAdmin {
		return true
	}
	if strings.TrimSpace(r.RolesPermitidos) == "" {
		return true
	}
	for _, allowed := range strings.Split(r.RolesPermitidos, ",") {
		if strings.EqualFold(strings.TrimSpace(allowed), role) {
			return true
		}
	}
	return false
}

// Projector is a bookable video projector.
type Projector struct {
	ID        int64         `db:"id" json:"id"`
	Nombre    string        `db:"nombre" json:"nombre"`
	Ubicacion string        `db:"ubicacion" json:"ubicacion"`
	Estado    ResourceState `db:"estado" json:"estado"`
}

// Equipment is a bookable auxiliary equipment item. Tipo references the
// equipment-type catalog by key; deleting a type leaves the key orphaned on
// existing items, which is tolerated.
type Equipment struct {
	ID          int64         `db:"id" json:"id"`
	Nombre      string        `db:"nombre" json:"nombre"`
	Tipo        string        `db:"tipo" json:"tipo"`
	Descripcion string        `db:"descripcion" json:"descripcion"`
	Estado      ResourceState `db:"estado" json:"estado"`
}

// ResourceRef identifies the concrete resource bound by an allocation.
type ResourceRef struct {
	Kind   ResourceKind `json:"tipo"`
	ID     int64        `json:"id"`
	Nombre string       `json:"nombre"`
}

// EquipmentType is an administrable catalog entry for equipment kinds.
type EquipmentType struct {
	Clave  string `db:"clave" json:"clave"`
	Nombre string `db:"nombre" json:"nombre"`
	Activo bool   `db:"activo" json:"activo"`
	Orden  int    `db:"orden" json:"orden"`
}

// SpecialOccupation marks a resource as administratively occupied outside the
// normal interval logic. While Activa, the resource is excluded from
// allocation entirely.
type SpecialOccupation struct {
	ID          int64        `db:"id" json:"id"`
	TipoRecurso ResourceKind `db:"tipo_recurso" json:"tipo_recurso"`
	ResourceID  int64        `db:"id_recurso" json:"id_recurso"`
	Motivo      string       `db:"motivo" json:"motivo"`
	Activa      bool         `db:"activa" json:"activa"`
}
