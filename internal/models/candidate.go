package models

// Category identifies one of the three independent elections. Voting is
// fully independent per category.
type Category string

const (
	CategoryPresidencial Category = "presidencial"
	CategoryDistrital    Category = "distrital"
	CategoryRegional     Category = "regional"
)

// Categories returns all electoral categories in display order.
func Categories() []Category {
	return []Category{CategoryPresidencial, CategoryDistrital, CategoryRegional}
}

// IsValid reports whether c is one of the known electoral categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryPresidencial, CategoryDistrital, CategoryRegional:
		return true
	}
	return false
}

// Candidate is an immutable snapshot of a ballot option, fetched at
// session start and refreshable on demand.
type Candidate struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Category               Category `json:"category"`
	PhotoURL               string   `json:"photoUrl,omitempty"`
	Description            string   `json:"description,omitempty"`
	PartyName              string   `json:"partyName,omitempty"`
	PartyLogoURL           string   `json:"partyLogoUrl,omitempty"`
	PartyDescription       string   `json:"partyDescription,omitempty"`
	AcademicFormation      string   `json:"academicFormation,omitempty"`
	ProfessionalExperience string   `json:"professionalExperience,omitempty"`
	CampaignProposal       string   `json:"campaignProposal,omitempty"`
	VoteCount              int      `json:"voteCount,omitempty"`
}

// FilterByCategory returns the candidates belonging to one category,
// preserving input order.
func FilterByCategory(candidates []Candidate, category Category) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// CategoryVoteTotal sums the published tallies for one category.
func CategoryVoteTotal(candidates []Candidate, category Category) int {
	total := 0
	for _, c := range candidates {
		if c.Category == category {
			total += c.VoteCount
		}
	}
	return total
}

// VoteShare returns a candidate's percentage of its category's tally.
// Zero when the category has no recorded votes yet.
func VoteShare(candidates []Candidate, candidate Candidate) float64 {
	total := CategoryVoteTotal(candidates, candidate.Category)
	if total == 0 {
		return 0
	}
	return float64(candidate.VoteCount) * 100 / float64(total)
}
