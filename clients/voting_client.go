package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/elecperu/cabina/internal/models"
	"github.com/elecperu/cabina/internal/session"
)

// envelope is the backend's response wrapper. Some endpoints wrap their
// payload under data, some return it bare; decode handles both.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// VotingAPIClient talks to the electoral backend's REST API. It implements
// session.Gateway.
type VotingAPIClient struct {
	base   *BaseClient
	logger zerolog.Logger
}

var _ session.Gateway = (*VotingAPIClient)(nil)

// NewVotingAPIClient creates a client for the backend at baseURL.
func NewVotingAPIClient(baseURL string) *VotingAPIClient {
	base := NewBaseClient(baseURL)
	base.SetHeader("Content-Type", "application/json")
	return &VotingAPIClient{
		base:   base,
		logger: log.With().Str("component", "voting_api").Logger(),
	}
}

// SetTimeout overrides the default per-request timeout.
func (c *VotingAPIClient) SetTimeout(timeout time.Duration) {
	c.base.SetTimeout(timeout)
}

// VerifyVoter verifies a DNI against the voter registry and establishes
// the backend side of the session.
func (c *VotingAPIClient) VerifyVoter(ctx context.Context, dni string) (*models.Voter, error) {
	var voter models.Voter
	payload := map[string]string{"dni": dni}
	if err := c.call(ctx, http.MethodPost, endpointVerifyVoter, payload, &voter); err != nil {
		return nil, err
	}
	return &voter, nil
}

// GetVoter fetches a voter record without registering a verification.
func (c *VotingAPIClient) GetVoter(ctx context.Context, dni string) (*models.Voter, error) {
	var voter models.Voter
	endpoint := fmt.Sprintf(endpointVoterByDNI, url.PathEscape(dni))
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &voter); err != nil {
		return nil, err
	}
	return &voter, nil
}

// ListCandidates fetches the full candidate snapshot across categories.
func (c *VotingAPIClient) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := c.call(ctx, http.MethodGet, endpointCandidates, nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// ListCandidatesByCategory fetches the snapshot for one category.
func (c *VotingAPIClient) ListCandidatesByCategory(ctx context.Context, category models.Category) ([]models.Candidate, error) {
	var candidates []models.Candidate
	endpoint := fmt.Sprintf(endpointCandidatesByCategory, url.PathEscape(string(category)))
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// VotedCategories fetches the authoritative set of categories already
// recorded for the voter.
func (c *VotingAPIClient) VotedCategories(ctx context.Context, dni string) ([]models.Category, error) {
	var categories []models.Category
	endpoint := fmt.Sprintf(endpointVotedCategories, url.PathEscape(dni))
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SubmitVotes registers a confirmed ballot. The backend rejects the call if
// any category in the payload is already locked for this voter.
func (c *VotingAPIClient) SubmitVotes(ctx context.Context, dni string, selections []models.Selection) error {
	req := models.VoteRequest{VoterDNI: dni, Selections: selections}
	return c.call(ctx, http.MethodPost, endpointVotes, req, nil)
}

// InvalidateVotes asks the backend to discard any votes recorded for the
// voter in the expired session. Returns the number invalidated.
func (c *VotingAPIClient) InvalidateVotes(ctx context.Context, dni string) (int, error) {
	var result struct {
		InvalidatedCount int `json:"invalidatedCount"`
	}
	endpoint := fmt.Sprintf(endpointInvalidateVotes, url.PathEscape(dni))
	if err := c.call(ctx, http.MethodPost, endpoint, nil, &result); err != nil {
		return 0, err
	}
	return result.InvalidatedCount, nil
}

// call performs one API round trip: marshals the payload, maps non-2xx
// statuses to the backend's error/message fields, and decodes the response
// whether or not it is wrapped in the standard envelope.
func (c *VotingAPIClient) call(ctx context.Context, method, endpoint string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	status, raw, err := c.base.MakeRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		var env envelope
		if json.Unmarshal(raw, &env) == nil {
			if env.Error != "" {
				return fmt.Errorf("backend error: %s", env.Error)
			}
			if env.Message != "" {
				return fmt.Errorf("backend error: %s", env.Message)
			}
		}
		c.logger.Warn().Int("status", status).Str("endpoint", endpoint).Msg("unexpected backend status")
		return fmt.Errorf("backend returned status %d", status)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
