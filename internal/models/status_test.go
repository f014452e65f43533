package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRequestStateCanonical(t *testing.T) {
	for _, raw := range []string{"pendiente", "aprobado", "rechazado", "anulado"} {
		state, ok := ParseRequestState(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, RequestState(raw), state)
	}
}

func TestParseRequestStateAliases(t *testing.T) {
	state, ok := ParseRequestState("aprobada")
	assert.True(t, ok)
	assert.Equal(t, StateApproved, state)

	state, ok = ParseRequestState("RECHAZADA")
	assert.True(t, ok)
	assert.Equal(t, StateRejected, state)

	state, ok = ParseRequestState("  Aprobado  ")
	assert.True(t, ok)
	assert.Equal(t, StateApproved, state)
}

func TestParseRequestStateRejectsUnknown(t *testing.T) {
	_, ok := ParseRequestState("archivado")
	assert.False(t, ok)
	_, ok = ParseRequestState("")
	assert.False(t, ok)
}

func TestServiceForClassification(t *testing.T) {
	svc := ServiceFor("sala")
	assert.Equal(t, KindRoom, svc.Kind)
	assert.Empty(t, svc.EquipmentType)

	svc = ServiceFor("Videoproyector")
	assert.Equal(t, KindProjector, svc.Kind)

	svc = ServiceFor("grabadora")
	assert.Equal(t, KindEquipment, svc.Kind)
	assert.Equal(t, "grabadora", svc.EquipmentType)
}

func TestRoomAllowsRole(t *testing.T) {
	open := Room{RolesPermitidos: ""}
	assert.True(t, open.AllowsRole(RoleStudent))

	restricted := Room{RolesPermitidos: "profesor, administrador"}
	assert.True(t, restricted.AllowsRole(RoleProfessor))
	assert.False(t, restricted.AllowsRole(RoleStudent))

	// Admins and unrestricted requesters always pass.
	assert.True(t, restricted.AllowsRole(RoleAdmin))
	assert.True(t, restricted.AllowsRole(""))
}
