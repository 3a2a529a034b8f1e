package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartner(t *testing.T) {
	p, err := NewPartner(uuid.New(), "Elétrica Naval Silva", "electrical")
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.Zero(t, p.Rating)
	assert.Zero(t, p.TotalJobs)

	_, err = NewPartner(uuid.New(), "", "electrical")
	assert.Error(t, err)
}

func TestRate_FirstRatingReplacesZero(t *testing.T) {
	p, err := NewPartner(uuid.New(), "Velas Atlântico", "sailmaker")
	require.NoError(t, err)

	require.NoError(t, p.Rate(4.0))
	assert.InDelta(t, 4.0, p.Rating, 1e-9)
	assert.Equal(t, 1, p.TotalJobs)
}

func TestRate_RunningMean(t *testing.T) {
	p, err := NewPartner(uuid.New(), "Pintura Marítima", "painting")
	require.NoError(t, err)

	require.NoError(t, p.Rate(5.0))
	require.NoError(t, p.Rate(3.0))
	assert.InDelta(t, 4.0, p.Rating, 1e-9)
	assert.Equal(t, 2, p.TotalJobs)

	require.NoError(t, p.Rate(4.0))
	assert.InDelta(t, 4.0, p.Rating, 1e-9)
	assert.Equal(t, 3, p.TotalJobs)
}

func TestRate_Bounds(t *testing.T) {
	p, err := NewPartner(uuid.New(), "Mecânica do Cais", "engines")
	require.NoError(t, err)

	assert.Error(t, p.Rate(-0.1))
	assert.Error(t, p.Rate(5.1))
	assert.Zero(t, p.TotalJobs, "rejected ratings must not change the count")

	require.NoError(t, p.Rate(0))
	assert.Equal(t, 1, p.TotalJobs)
	assert.Zero(t, p.Rating)

	require.NoError(t, p.Rate(5))
	assert.InDelta(t, 2.5, p.Rating, 1e-9)
}

func TestActivateDeactivate(t *testing.T) {
	p, err := NewPartner(uuid.New(), "Guindaste Porto Sul", "haul-out")
	require.NoError(t, err)

	p.Deactivate()
	assert.False(t, p.Active)
	p.Activate()
	assert.True(t, p.Active)
}
