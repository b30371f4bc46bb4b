package session

import (
	"fmt"

	"github.com/elecperu/cabina/internal/models"
)

// SelectionSet is the in-memory ballot builder: at most one selection per
// category, with toggle/replace semantics. Order of first selection per
// category is preserved for display numbering only.
//
// The set is owned by the Controller and must only be touched from its
// event handlers.
type SelectionSet struct {
	guard      *VotedCategoryGuard
	selections []models.Selection
}

// NewSelectionSet creates an empty ballot builder backed by guard.
func NewSelectionSet(guard *VotedCategoryGuard) *SelectionSet {
	return &SelectionSet{guard: guard}
}

// Toggle applies a user selection event for candidate:
//   - a locked category fails with ErrCategoryLocked, without mutation
//   - the currently selected candidate is deselected
//   - a different candidate in an already-selected category replaces the
//     existing selection in place, so two selections for one category never
//     coexist, even transiently
//   - otherwise the selection is appended
func (s *SelectionSet) Toggle(candidate models.Candidate) error {
	if s.guard.IsLocked(candidate.Category) {
		return fmt.Errorf("%w: %s", ErrCategoryLocked, candidate.Category)
	}

	for i, sel := range s.selections {
		if sel.Category != candidate.Category {
			continue
		}
		if sel.CandidateID == candidate.ID {
			s.selections = append(s.selections[:i], s.selections[i+1:]...)
		} else {
			s.selections[i] = models.Selection{
				CandidateID:   candidate.ID,
				CandidateName: candidate.Name,
				Category:      candidate.Category,
			}
		}
		return nil
	}

	s.selections = append(s.selections, models.Selection{
		CandidateID:   candidate.ID,
		CandidateName: candidate.Name,
		Category:      candidate.Category,
	})
	return nil
}

// Selected returns the current selection for category, if any.
func (s *SelectionSet) Selected(category models.Category) (models.Selection, bool) {
	for _, sel := range s.selections {
		if sel.Category == category {
			return sel, true
		}
	}
	return models.Selection{}, false
}

// List returns a copy of the current selections in insertion order.
func (s *SelectionSet) List() []models.Selection {
	out := make([]models.Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

// Len returns the number of selections in the set.
func (s *SelectionSet) Len() int {
	return len(s.selections)
}

// Clear empties the set. Used after submission or session termination.
func (s *SelectionSet) Clear() {
	s.selections = nil
}
