package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProject() *Project {
	return &Project{ID: "p1", OwnerID: "u1", Name: "Bridge", Status: ProjectActive}
}

func TestProjectValidate_Valid(t *testing.T) {
	assert.NoError(t, validProject().Validate())
}

func TestProjectValidate_RequiresOwner(t *testing.T) {
	p := validProject()
	p.OwnerID = ""
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner")
}

func TestProjectValidate_RejectsUnknownStatus(t *testing.T) {
	p := validProject()
	p.Status = "paused"
	assert.Error(t, p.Validate())
}

func TestProjectValidate_LatitudeRange(t *testing.T) {
	p := validProject()
	lat, lng := 91.0, 10.0
	p.Latitude, p.Longitude = &lat, &lng
	assert.Error(t, p.Validate())
}

func TestProjectCoordinates_GeoJSONOrder(t *testing.T) {
	p := validProject()
	assert.False(t, p.HasLocation())
	assert.Nil(t, p.Coordinates())

	lat, lng := 52.52, 13.405
	p.Latitude, p.Longitude = &lat, &lng
	assert.True(t, p.HasLocation())
	assert.Equal(t, []float64{13.405, 52.52}, p.Coordinates())
}

func TestProjectIsOwnedBy(t *testing.T) {
	p := validProject()
	assert.True(t, p.IsOwnedBy("u1"))
	assert.False(t, p.IsOwnedBy("u2"))
	assert.False(t, p.IsOwnedBy(""))
}
