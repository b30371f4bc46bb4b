package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elecperu/cabina/internal/models"
)

func candidate(id, name string, category models.Category) models.Candidate {
	return models.Candidate{ID: id, Name: name, Category: category}
}

func TestSelectionSet_ToggleInsertsPerCategory(t *testing.T) {
	set := NewSelectionSet(NewVotedCategoryGuard())

	require.NoError(t, set.Toggle(candidate("c1", "Ana", models.CategoryPresidencial)))
	require.NoError(t, set.Toggle(candidate("c2", "Luis", models.CategoryDistrital)))

	selections := set.List()
	require.Len(t, selections, 2)
	assert.Equal(t, "c1", selections[0].CandidateID)
	assert.Equal(t, "c2", selections[1].CandidateID)
}

func TestSelectionSet_ToggleOffRestoresPriorState(t *testing.T) {
	set := NewSelectionSet(NewVotedCategoryGuard())
	c := candidate("c1", "Ana", models.CategoryPresidencial)

	require.NoError(t, set.Toggle(c))
	assert.Equal(t, 1, set.Len())

	require.NoError(t, set.Toggle(c))
	assert.Equal(t, 0, set.Len())
}

func TestSelectionSet_ReplaceWithinCategory(t *testing.T) {
	set := NewSelectionSet(NewVotedCategoryGuard())

	require.NoError(t, set.Toggle(candidate("x", "Ana", models.CategoryPresidencial)))
	require.NoError(t, set.Toggle(candidate("y", "Luis", models.CategoryPresidencial)))

	selections := set.List()
	require.Len(t, selections, 1)
	assert.Equal(t, "y", selections[0].CandidateID)
	assert.Equal(t, "Luis", selections[0].CandidateName)
}

func TestSelectionSet_ReplaceKeepsInsertionOrder(t *testing.T) {
	set := NewSelectionSet(NewVotedCategoryGuard())

	require.NoError(t, set.Toggle(candidate("p1", "Ana", models.CategoryPresidencial)))
	require.NoError(t, set.Toggle(candidate("d1", "Luis", models.CategoryDistrital)))
	require.NoError(t, set.Toggle(candidate("p2", "Rosa", models.CategoryPresidencial)))

	selections := set.List()
	require.Len(t, selections, 2)
	assert.Equal(t, "p2", selections[0].CandidateID)
	assert.Equal(t, "d1", selections[1].CandidateID)
}

func TestSelectionSet_LockedCategoryRejectedWithoutMutation(t *testing.T) {
	guard := NewVotedCategoryGuard()
	guard.Refresh([]models.Category{models.CategoryRegional})
	set := NewSelectionSet(guard)

	require.NoError(t, set.Toggle(candidate("p1", "Ana", models.CategoryPresidencial)))

	err := set.Toggle(candidate("r1", "Juan", models.CategoryRegional))
	require.ErrorIs(t, err, ErrCategoryLocked)

	selections := set.List()
	require.Len(t, selections, 1)
	assert.Equal(t, "p1", selections[0].CandidateID)
}

func TestSelectionSet_NeverTwoSelectionsPerCategory(t *testing.T) {
	set := NewSelectionSet(NewVotedCategoryGuard())

	// Arbitrary toggle sequence across categories.
	sequence := []models.Candidate{
		candidate("p1", "Ana", models.CategoryPresidencial),
		candidate("d1", "Luis", models.CategoryDistrital),
		candidate("p2", "Rosa", models.CategoryPresidencial),
		candidate("r1", "Juan", models.CategoryRegional),
		candidate("p2", "Rosa", models.CategoryPresidencial),
		candidate("d2", "Eva", models.CategoryDistrital),
		candidate("p1", "Ana", models.CategoryPresidencial),
		candidate("r1", "Juan", models.CategoryRegional),
	}

	for _, c := range sequence {
		require.NoError(t, set.Toggle(c))

		seen := make(map[models.Category]int)
		for _, sel := range set.List() {
			seen[sel.Category]++
		}
		for category, count := range seen {
			assert.Equal(t, 1, count, "category %s has %d selections", category, count)
		}
	}
}

func TestSelectionSet_ClearEmptiesSet(t *testing.T) {
	set := NewSelectionSet(NewVotedCategoryGuard())
	require.NoError(t, set.Toggle(candidate("c1", "Ana", models.CategoryPresidencial)))

	set.Clear()
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.List())
}

func TestSelectionSet_Selected(t *testing.T) {
	set := NewSelectionSet(NewVotedCategoryGuard())
	require.NoError(t, set.Toggle(candidate("c1", "Ana", models.CategoryPresidencial)))

	sel, ok := set.Selected(models.CategoryPresidencial)
	require.True(t, ok)
	assert.Equal(t, "c1", sel.CandidateID)

	_, ok = set.Selected(models.CategoryRegional)
	assert.False(t, ok)
}
