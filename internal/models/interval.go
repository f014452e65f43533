package models

// Overlaps reports whether a stored interval [s, e) collides with the
// requested interval [reqStart, reqEnd). Times are "HH:MM:SS" strings, which
// order correctly under lexicographic comparison.
//
// The three-clause form is the contract inherited from the legacy engine and
// is kept verbatim: it is equivalent to s < reqEnd && e > reqStart, so
// back-to-back bookings (one ending exactly when the next starts) do not
// overlap.
func Overlaps(s, e, reqStart, reqEnd string) bool {
	return (s <= reqStart && e > reqStart) ||
		(s < reqEnd && e >= reqEnd) ||
		(s >= reqStart && s < reqEnd)
}

// BookedInterval is an approved reservation window bound to a resource.
type BookedInterval struct {
	ResourceID int64  `db:"id_recurso"`
	HoraInicio string `db:"hora_inicio"`
	HoraFin    string `db:"hora_fin"`
}
