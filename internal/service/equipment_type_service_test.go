package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-medios/av-booking-api/internal/models"
	"github.com/campus-medios/av-booking-api/pkg/config"
	appErrors "github.com/campus-medios/av-booking-api/pkg/errors"
)

type typeRepoStub struct {
	types     map[string]models.EquipmentType
	reordered []string
}

func (s *typeRepoStub) List(ctx context.Context, includeInactive bool) ([]models.EquipmentType, error) {
	var result []models.EquipmentType
	for _, t := range s.types {
		if includeInactive || t.Activo {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *typeRepoStub) FindByClave(ctx context.Context, clave string) (*models.EquipmentType, error) {
	if t, ok := s.types[clave]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (s *typeRepoStub) Create(ctx context.Context, t *models.EquipmentType) error {
	if s.types == nil {
		s.types = make(map[string]models.EquipmentType)
	}
	s.types[t.Clave] = *t
	return nil
}

func (s *typeRepoStub) Update(ctx context.Context, t *models.EquipmentType) error {
	s.types[t.Clave] = *t
	return nil
}

func (s *typeRepoStub) Delete(ctx context.Context, clave string) error {
	delete(s.types, clave)
	return nil
}

func (s *typeRepoStub) Reorder(ctx context.Context, claves []string) error {
	s.reordered = claves
	return nil
}

func newTypeService(repo *typeRepoStub) *EquipmentTypeService {
	return NewEquipmentTypeService(repo, nil, nil, nil, config.CatalogConfig{})
}

func TestEquipmentTypeCreate(t *testing.T) {
	repo := &typeRepoStub{}
	svc := newTypeService(repo)

	created, err := svc.Create(context.Background(), EquipmentTypeInput{Clave: "grabadora", Nombre: "Grabadora de audio", Orden: 1})
	require.NoError(t, err)
	assert.True(t, created.Activo)
	assert.Contains(t, repo.types, "grabadora")
}

func TestEquipmentTypeCreateRejectsReservedKeys(t *testing.T) {
	svc := newTypeService(&typeRepoStub{})

	for _, clave := range []string{"sala", "videoproyector"} {
		_, err := svc.Create(context.Background(), EquipmentTypeInput{Clave: clave, Nombre: "Reservado"})
		require.Error(t, err, clave)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestEquipmentTypeCreateRejectsDuplicateKey(t *testing.T) {
	repo := &typeRepoStub{types: map[string]models.EquipmentType{
		"grabadora": {Clave: "grabadora", Nombre: "Grabadora", Activo: true},
	}}
	svc := newTypeService(repo)

	_, err := svc.Create(context.Background(), EquipmentTypeInput{Clave: "grabadora", Nombre: "Otra"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEquipmentTypeUpdateKeepsKeyImmutable(t *testing.T) {
	repo := &typeRepoStub{types: map[string]models.EquipmentType{
		"grabadora": {Clave: "grabadora", Nombre: "Grabadora", Activo: true},
	}}
	svc := newTypeService(repo)

	_, err := svc.Update(context.Background(), "grabadora", EquipmentTypeInput{Clave: "microfono", Nombre: "Micrófono"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	updated, err := svc.Update(context.Background(), "grabadora", EquipmentTypeInput{Nombre: "Grabadora digital", Orden: 2})
	require.NoError(t, err)
	assert.Equal(t, "grabadora", updated.Clave)
	assert.Equal(t, "Grabadora digital", updated.Nombre)
}

func TestEquipmentTypeReorder(t *testing.T) {
	repo := &typeRepoStub{}
	svc := newTypeService(repo)

	err := svc.Reorder(context.Background(), nil)
	require.Error(t, err)

	require.NoError(t, svc.Reorder(context.Background(), []string{"camara", "grabadora"}))
	assert.Equal(t, []string{"camara", "grabadora"}, repo.reordered)
}
