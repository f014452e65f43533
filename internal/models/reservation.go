package models

import "time"

// Reservation is a solicitud row: a request for a resource on a date within a
// half-open [hora_inicio, hora_fin) window. At most one of RoomID,
// ProjectorID and EquipmentID is set, consistent with Servicio; all three are
// null when the reservation was rejected. Dates and times travel as strings
// ("2006-01-02", "15:04:05") to preserve the legacy wire and column format.
type Reservation struct {
	ID         int64        `db:"id" json:"id_solicitud"`
	UserID     *int64       `db:"id_usuario" json:"id_usuario,omitempty"`
	Fecha      string       `db:"fecha" json:"fecha"`
	HoraInicio string       `db:"hora_inicio" json:"hora_inicio"`
	HoraFin    string       `db:"hora_fin" json:"hora_fin"`
	Servicio   string       `db:"servicio" json:"servicio"`
	Estado     RequestState `db:"estado_reserva" json:"estado_reserva"`

	RoomID      *int64 `db:"id_sala" json:"id_sala,omitempty"`
	ProjectorID *int64 `db:"id_videoproyector" json:"id_videoproyector,omitempty"`
	EquipmentID *int64 `db:"id_equipo" json:"id_equipo,omitempty"`

	Estudiante       *string `db:"estudiante" json:"estudiante,omitempty"`
	Docente          string  `db:"docente" json:"docente"`
	Programa         *string `db:"programa" json:"programa,omitempty"`
	Asignatura       string  `db:"asignatura" json:"asignatura"`
	Semestre         *int    `db:"semestre" json:"semestre,omitempty"`
	Celular          string  `db:"celular" json:"celular"`
	Salon            string  `db:"salon" json:"salon"`
	TipoActividad    *string `db:"tipo_actividad" json:"tipo_actividad,omitempty"`
	NumeroAsistentes *int    `db:"numero_asistentes" json:"numero_asistentes,omitempty"`
	EquipCual        *string `db:"equip_cual" json:"equip_cual,omitempty"`

	// Legacy equipment flags kept for old clients. The id_equipo column is
	// the only authoritative binding; these are never consulted for conflict
	// detection.
	EquipVideocamara    bool `db:"equip_videocamara" json:"equip_videocamara"`
	EquipDVD            bool `db:"equip_dvd" json:"equip_dvd"`
	EquipExtensionAudio bool `db:"equip_extension_audio" json:"equip_extension_audio"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BoundResourceID returns the id bound for the given kind, if any.
func (r *Reservation) BoundResourceID(kind ResourceKind) *int64 {
	switch kind {
	case KindRoom:
		return r.RoomID
	case KindProjector:
		return r.ProjectorID
	case KindEquipment:
		return r.EquipmentID
	}
	return nil
}

// ReservationFilter captures query params for listing reservations.
type ReservationFilter struct {
	UserID    *int64
	Fecha     string
	Estado    RequestState
	Servicio  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// StatusHistory is an immutable log entry recording one state transition.
// EstadoAnterior is null for the transition written at creation time.
type StatusHistory struct {
	ID             int64         `db:"id" json:"id"`
	ReservationID  int64         `db:"id_solicitud" json:"id_solicitud"`
	EstadoAnterior *RequestState `db:"estado_anterior" json:"estado_anterior"`
	EstadoNuevo    RequestState  `db:"estado_nuevo" json:"estado_nuevo"`
	Comentarios    string        `db:"comentarios" json:"comentarios"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}
