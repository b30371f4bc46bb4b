package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elecperu/cabina/internal/models"
)

func TestVotedCategoryGuard_Empty(t *testing.T) {
	guard := NewVotedCategoryGuard()
	for _, category := range models.Categories() {
		assert.False(t, guard.IsLocked(category))
	}
	assert.Empty(t, guard.Locked())
}

func TestVotedCategoryGuard_RefreshReplacesSet(t *testing.T) {
	guard := NewVotedCategoryGuard()

	guard.Refresh([]models.Category{models.CategoryRegional})
	assert.True(t, guard.IsLocked(models.CategoryRegional))
	assert.False(t, guard.IsLocked(models.CategoryPresidencial))

	guard.Refresh([]models.Category{models.CategoryPresidencial, models.CategoryDistrital})
	assert.True(t, guard.IsLocked(models.CategoryPresidencial))
	assert.True(t, guard.IsLocked(models.CategoryDistrital))
	assert.False(t, guard.IsLocked(models.CategoryRegional))
}

func TestVotedCategoryGuard_LockedDisplayOrder(t *testing.T) {
	guard := NewVotedCategoryGuard()
	guard.Refresh([]models.Category{models.CategoryRegional, models.CategoryPresidencial})

	assert.Equal(t,
		[]models.Category{models.CategoryPresidencial, models.CategoryRegional},
		guard.Locked())
}
