package session

import "github.com/elecperu/cabina/internal/models"

// VotedCategoryGuard tracks the categories the backend has already
// permanently recorded for this voter. The server is authoritative: the
// guard never infers voted status from the client's own submissions, it
// only reflects what Refresh was last told.
//
// The guard is owned by the Controller and must only be touched from its
// event handlers.
type VotedCategoryGuard struct {
	locked map[models.Category]struct{}
}

// NewVotedCategoryGuard creates a guard with no locked categories.
func NewVotedCategoryGuard() *VotedCategoryGuard {
	return &VotedCategoryGuard{locked: make(map[models.Category]struct{})}
}

// IsLocked reports whether further selection in category is blocked.
func (g *VotedCategoryGuard) IsLocked(category models.Category) bool {
	_, ok := g.locked[category]
	return ok
}

// Refresh replaces the guard's set with the server-confirmed categories.
func (g *VotedCategoryGuard) Refresh(categories []models.Category) {
	locked := make(map[models.Category]struct{}, len(categories))
	for _, c := range categories {
		locked[c] = struct{}{}
	}
	g.locked = locked
}

// Locked returns the locked categories in display order.
func (g *VotedCategoryGuard) Locked() []models.Category {
	var out []models.Category
	for _, c := range models.Categories() {
		if g.IsLocked(c) {
			out = append(out, c)
		}
	}
	return out
}
