package models

// Selection is one chosen candidate within a category. The active ballot
// holds at most one Selection per category.
type Selection struct {
	CandidateID   string   `json:"candidateId"`
	CandidateName string   `json:"candidateName"`
	Category      Category `json:"category"`
}

// VoteRequest is the submission payload for a confirmed ballot.
type VoteRequest struct {
	VoterDNI   string      `json:"voterDni"`
	Selections []Selection `json:"selections"`
}
