package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDNI(t *testing.T) {
	assert.NoError(t, ValidateDNI("12345678"))
	assert.Error(t, ValidateDNI(""))
	assert.Error(t, ValidateDNI("1234567"))
	assert.Error(t, ValidateDNI("123456789"))
	assert.Error(t, ValidateDNI("1234567a"))
	assert.Error(t, ValidateDNI("12 45678"))
}

func TestCategoryIsValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.IsValid())
	}
	assert.False(t, Category("municipal").IsValid())
	assert.False(t, Category("").IsValid())
}

func TestFilterByCategory(t *testing.T) {
	candidates := []Candidate{
		{ID: "p1", Category: CategoryPresidencial},
		{ID: "d1", Category: CategoryDistrital},
		{ID: "p2", Category: CategoryPresidencial},
	}

	filtered := FilterByCategory(candidates, CategoryPresidencial)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "p1", filtered[0].ID)
	assert.Equal(t, "p2", filtered[1].ID)
	assert.Empty(t, FilterByCategory(candidates, CategoryRegional))
}

func TestCategoryVoteTotal(t *testing.T) {
	candidates := []Candidate{
		{ID: "p1", Category: CategoryPresidencial, VoteCount: 10},
		{ID: "p2", Category: CategoryPresidencial, VoteCount: 5},
		{ID: "d1", Category: CategoryDistrital, VoteCount: 7},
	}

	assert.Equal(t, 15, CategoryVoteTotal(candidates, CategoryPresidencial))
	assert.Equal(t, 7, CategoryVoteTotal(candidates, CategoryDistrital))
	assert.Equal(t, 0, CategoryVoteTotal(candidates, CategoryRegional))
}

func TestVoteShare(t *testing.T) {
	candidates := []Candidate{
		{ID: "p1", Category: CategoryPresidencial, VoteCount: 30},
		{ID: "p2", Category: CategoryPresidencial, VoteCount: 10},
		{ID: "r1", Category: CategoryRegional},
	}

	assert.InDelta(t, 75.0, VoteShare(candidates, candidates[0]), 0.001)
	assert.InDelta(t, 25.0, VoteShare(candidates, candidates[1]), 0.001)
	assert.Zero(t, VoteShare(candidates, candidates[2]))
}
