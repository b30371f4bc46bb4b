package clients

// Electoral backend endpoints, relative to the configured base URL.
const (
	endpointVerifyVoter          = "/voters/verify"
	endpointVoterByDNI           = "/voters/%s"
	endpointCandidates           = "/candidates"
	endpointCandidatesByCategory = "/candidates/category/%s"
	endpointVotes                = "/votes"
	endpointVotedCategories      = "/votes/voter/%s/categories"
	endpointInvalidateVotes      = "/votes/invalidate/%s"
)
