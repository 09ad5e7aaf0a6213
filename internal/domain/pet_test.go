package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetStatus_IsAliveBoundary(t *testing.T) {
	t0 := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	pet := NewPetStatus("dog", t0, DefaultPetLifespan)
	death := time.UnixMilli(pet.DeathTime)

	assert.True(t, pet.IsAlive(death.Add(-time.Millisecond)))
	assert.False(t, pet.IsAlive(death), "death instant is exclusive")
	assert.False(t, pet.IsAlive(death.Add(time.Millisecond)))
}

func TestPetStatus_Feed(t *testing.T) {
	t0 := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

	t.Run("alive pet gains the bonus", func(t *testing.T) {
		pet := NewPetStatus("dog", t0, DefaultPetLifespan)
		before := pet.DeathTime
		require.NoError(t, pet.Feed(t0.Add(time.Hour), DefaultFeedBonus))
		assert.Equal(t, before+DefaultFeedBonus.Milliseconds(), pet.DeathTime)
	})

	t.Run("dead pet is rejected", func(t *testing.T) {
		pet := NewPetStatus("dog", t0, DefaultPetLifespan)
		before := pet.DeathTime
		err := pet.Feed(t0.Add(DefaultPetLifespan), DefaultFeedBonus)
		assert.ErrorIs(t, err, ErrNotAlive)
		assert.Equal(t, before, pet.DeathTime)
	})
}

func TestPetStatus_Revive(t *testing.T) {
	t0 := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	pet := NewPetStatus("cactus", t0, DefaultPetLifespan)

	assert.ErrorIs(t, pet.Revive(t0, DefaultPetLifespan), ErrPetAlive)

	later := t0.Add(DefaultPetLifespan + time.Millisecond)
	require.NoError(t, pet.Revive(later, DefaultPetLifespan))
	assert.Equal(t, later.Add(DefaultPetLifespan).UnixMilli(), pet.DeathTime)
	assert.True(t, pet.IsAlive(later))
}

func TestPetStatus_Remaining(t *testing.T) {
	t0 := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	pet := NewPetStatus("snake", t0, time.Hour)

	assert.Equal(t, 30*time.Minute, pet.Remaining(t0.Add(30*time.Minute)))
	assert.Equal(t, time.Duration(0), pet.Remaining(t0.Add(2*time.Hour)))
}

func TestReviveCost(t *testing.T) {
	assert.Equal(t, 25, ReviveCost(50))
	assert.Equal(t, 20, ReviveCost(41))
	assert.Equal(t, 0, ReviveCost(1))
}
