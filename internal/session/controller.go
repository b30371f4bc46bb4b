package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/elecperu/cabina/internal/models"
	"github.com/elecperu/cabina/internal/storage"
)

// Status defines the lifecycle state of a voting session.
type Status string

const (
	StatusLoading    Status = "LOADING"
	StatusActive     Status = "ACTIVE"
	StatusSubmitting Status = "SUBMITTING"
	StatusSubmitted  Status = "SUBMITTED"
	StatusTimingOut  Status = "TIMING_OUT"
	StatusExpired    Status = "EXPIRED"
)

const (
	// DefaultWindow is the voting time budget per verified voter.
	DefaultWindow = 5 * time.Minute

	// DefaultGrace is how long the expiry notice stays up before the
	// session is cleared and the kiosk returns to the identity step.
	DefaultGrace = 7 * time.Second

	invalidateTimeout = 10 * time.Second
)

// Gateway defines what the controller needs from the electoral backend.
type Gateway interface {
	VerifyVoter(ctx context.Context, dni string) (*models.Voter, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	VotedCategories(ctx context.Context, dni string) ([]models.Category, error)
	SubmitVotes(ctx context.Context, dni string, selections []models.Selection) error
	InvalidateVotes(ctx context.Context, dni string) (int, error)
}

// Config holds session timing parameters.
type Config struct {
	Window time.Duration
	Grace  time.Duration
}

// Controller owns one voting session: the time budget, the ballot builder
// and the voted-category guard. It is the only component that transitions
// session status, and it is safe for concurrent use by the UI layer and its
// own timer goroutines.
//
// Lifecycle: Loading -> Active -> {Submitting -> Submitted} |
// {TimingOut -> Expired}. Active is the only state that accepts selection
// toggles and confirmation.
type Controller struct {
	gateway Gateway
	store   storage.Store
	clock   Clock
	hooks   Hooks
	logger  zerolog.Logger
	grace   time.Duration

	mu         sync.Mutex
	status     Status
	voter      *models.Voter
	candidates []models.Candidate
	budget     *TimeBudget
	guard      *VotedCategoryGuard
	ballot     *SelectionSet
	expiryDue  bool
	tickStop   chan struct{}
	done       chan struct{}
	closed     bool
}

// NewController creates a controller in the Loading state. One controller
// serves exactly one voter session; create a fresh one per session.
func NewController(gateway Gateway, store storage.Store, clock Clock, cfg Config, hooks Hooks) *Controller {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Grace <= 0 {
		cfg.Grace = DefaultGrace
	}
	guard := NewVotedCategoryGuard()
	return &Controller{
		gateway: gateway,
		store:   store,
		clock:   clock,
		hooks:   hooks,
		logger:  log.With().Str("session", uuid.New().String()[:8]).Logger(),
		grace:   cfg.Grace,
		status:  StatusLoading,
		budget:  NewTimeBudget(store, clock, cfg.Window),
		guard:   guard,
		ballot:  NewSelectionSet(guard),
		done:    make(chan struct{}),
	}
}

// Begin verifies the voter's identity and activates the session. On any
// failure the controller stays in Loading and the voter may retry; the time
// anchor, once persisted, is never reset by a retry.
func (c *Controller) Begin(ctx context.Context, dni string) error {
	if c.Status() != StatusLoading {
		return ErrNotActive
	}
	if err := models.ValidateDNI(dni); err != nil {
		return err
	}

	voter, err := c.gateway.VerifyVoter(ctx, dni)
	if err != nil {
		c.logger.Error().Err(err).Str("dni", maskDNI(dni)).Msg("identity verification failed")
		return fmt.Errorf("identity verification failed: %w", err)
	}

	raw, err := json.Marshal(voter)
	if err != nil {
		return fmt.Errorf("failed to encode voter record: %w", err)
	}
	if err := c.store.Save(storage.KeyVoter, string(raw)); err != nil {
		return fmt.Errorf("failed to persist voter record: %w", err)
	}
	if err := c.store.Save(storage.KeyVoterDNI, voter.DNI); err != nil {
		return fmt.Errorf("failed to persist voter dni: %w", err)
	}
	if _, err := c.budget.Start(); err != nil {
		return err
	}

	c.logger.Info().Str("dni", maskDNI(voter.DNI)).Msg("voter verified; starting session")
	return c.load(ctx, voter)
}

// Resume reactivates a session from persisted state after a kiosk restart.
// Missing identity or a missing time anchor is terminal: the persisted
// scope is cleared and ErrSessionInvalid returned so the caller aborts to
// the identity step.
func (c *Controller) Resume(ctx context.Context) error {
	rawVoter, okVoter, err := c.store.Load(storage.KeyVoter)
	if err != nil {
		return fmt.Errorf("failed to load voter record: %w", err)
	}
	_, okDNI, err := c.store.Load(storage.KeyVoterDNI)
	if err != nil {
		return fmt.Errorf("failed to load voter dni: %w", err)
	}
	if !okVoter || !okDNI {
		c.clearSession()
		return ErrSessionInvalid
	}

	var voter models.Voter
	if err := json.Unmarshal([]byte(rawVoter), &voter); err != nil {
		c.clearSession()
		return fmt.Errorf("%w: unreadable voter record", ErrSessionInvalid)
	}
	if _, err := c.budget.Anchor(); err != nil {
		c.clearSession()
		return fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}

	c.logger.Info().Str("dni", maskDNI(voter.DNI)).Msg("resuming persisted session")
	return c.load(ctx, &voter)
}

// load fetches candidates and voted categories, then activates the
// session. Fetch failures are recoverable: the controller stays in Loading.
func (c *Controller) load(ctx context.Context, voter *models.Voter) error {
	candidates, err := c.gateway.ListCandidates(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to load candidates")
		return fmt.Errorf("failed to load candidates: %w", err)
	}
	voted, err := c.gateway.VotedCategories(ctx, voter.DNI)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to load voted categories")
		return fmt.Errorf("failed to load voted categories: %w", err)
	}

	c.mu.Lock()
	if c.status != StatusLoading {
		c.mu.Unlock()
		return ErrNotActive
	}
	c.voter = voter
	c.candidates = candidates
	c.guard.Refresh(voted)
	c.status = StatusActive
	c.tickStop = make(chan struct{})
	go c.runTicker(c.tickStop)
	c.mu.Unlock()

	// A resumed session whose window already lapsed must time out now, not
	// on the first ticker fire.
	c.onTick()
	return nil
}

// Toggle applies a selection event to the ballot. Accepted only while
// Active; a locked category fails with ErrCategoryLocked.
func (c *Controller) Toggle(candidate models.Candidate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusActive {
		return ErrNotActive
	}
	return c.ballot.Toggle(candidate)
}

// Confirm submits the current ballot. Exactly one submission may be in
// flight; a concurrent attempt fails with ErrAlreadySubmitting. On backend
// failure the selections stay intact and the session returns to Active so
// the voter can retry. If the countdown reached zero while the submission
// was in flight, a failed submission then proceeds to the timeout sequence;
// a successful one wins the race and the session ends Submitted.
func (c *Controller) Confirm(ctx context.Context) error {
	c.mu.Lock()
	switch c.status {
	case StatusSubmitting:
		c.mu.Unlock()
		return ErrAlreadySubmitting
	case StatusActive:
	default:
		c.mu.Unlock()
		return ErrNotActive
	}
	if c.ballot.Len() == 0 {
		c.mu.Unlock()
		return ErrEmptyBallot
	}
	selections := c.ballot.List()
	dni := c.voter.DNI
	c.status = StatusSubmitting
	c.mu.Unlock()

	err := c.gateway.SubmitVotes(ctx, dni, selections)

	c.mu.Lock()
	if c.status != StatusSubmitting {
		// Torn down while the call was in flight.
		c.mu.Unlock()
		return ErrNotActive
	}
	if err != nil {
		c.status = StatusActive
		expire := c.expiryDue
		c.expiryDue = false
		if expire {
			c.logger.Error().Err(err).Msg("vote submission failed after window expired")
			c.expireLocked()
		} else {
			c.mu.Unlock()
			c.logger.Error().Err(err).Msg("vote submission failed")
		}
		return fmt.Errorf("failed to submit votes: %w", err)
	}

	c.expiryDue = false
	c.ballot.Clear()
	c.stopTickerLocked()
	c.clearSessionLocked()
	c.status = StatusSubmitted
	c.mu.Unlock()

	c.logger.Info().
		Str("dni", maskDNI(dni)).
		Int("selections", len(selections)).
		Msg("ballot submitted")
	c.hooks.redirect()
	return nil
}

// RefreshCandidates refetches the candidate snapshot. It never touches
// selection or voted-category state.
func (c *Controller) RefreshCandidates(ctx context.Context) error {
	candidates, err := c.gateway.ListCandidates(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh candidates: %w", err)
	}
	c.mu.Lock()
	c.candidates = candidates
	c.mu.Unlock()
	return nil
}

// RefreshVotedCategories refetches the authoritative lock set.
func (c *Controller) RefreshVotedCategories(ctx context.Context) error {
	c.mu.Lock()
	if c.voter == nil {
		c.mu.Unlock()
		return ErrNotActive
	}
	dni := c.voter.DNI
	c.mu.Unlock()

	voted, err := c.gateway.VotedCategories(ctx, dni)
	if err != nil {
		return fmt.Errorf("failed to refresh voted categories: %w", err)
	}
	c.mu.Lock()
	c.guard.Refresh(voted)
	c.mu.Unlock()
	return nil
}

// Status returns the controller's current lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Voter returns the verified voter record, if the session is loaded.
func (c *Controller) Voter() *models.Voter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voter
}

// Candidates returns the current candidate snapshot.
func (c *Controller) Candidates() []models.Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Candidate, len(c.candidates))
	copy(out, c.candidates)
	return out
}

// CandidatesByCategory returns the snapshot filtered to one category.
func (c *Controller) CandidatesByCategory(category models.Category) []models.Candidate {
	return models.FilterByCategory(c.Candidates(), category)
}

// Selections returns the ballot's current selections in insertion order.
func (c *Controller) Selections() []models.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ballot.List()
}

// LockedCategories returns the server-confirmed voted categories.
func (c *Controller) LockedCategories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guard.Locked()
}

// Remaining returns the time left in the voting window.
func (c *Controller) Remaining() (time.Duration, error) {
	return c.budget.Remaining(c.clock.Now())
}

// Close cancels all pending timers. Call on kiosk shutdown or navigation
// away so no transition fires against a torn-down session.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTickerLocked()
	close(c.done)
}

func (c *Controller) runTicker(stop chan struct{}) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-c.done:
			return
		case <-ticker.Chan():
			c.onTick()
		}
	}
}

// onTick recomputes remaining time from the persisted anchor and drives the
// expiry transition. Expiry can fire at most once: only an Active session
// enters TimingOut, and a submission in flight defers it.
func (c *Controller) onTick() {
	c.mu.Lock()
	if c.status != StatusActive && c.status != StatusSubmitting {
		c.mu.Unlock()
		return
	}
	remaining, err := c.budget.Remaining(c.clock.Now())
	if err != nil {
		c.mu.Unlock()
		c.logger.Error().Err(err).Msg("failed to compute remaining time")
		return
	}
	if remaining > 0 {
		c.mu.Unlock()
		c.hooks.tick(remaining)
		return
	}
	if c.status == StatusSubmitting {
		c.expiryDue = true
		c.mu.Unlock()
		return
	}
	c.expireLocked()
}

// expireLocked transitions Active -> TimingOut, fires the expiry notice,
// kicks off the best-effort invalidation and schedules the grace timer that
// completes the Expired transition. Called with c.mu held; releases it.
func (c *Controller) expireLocked() {
	c.status = StatusTimingOut
	c.stopTickerLocked()
	dni := ""
	if c.voter != nil {
		dni = c.voter.DNI
	}
	timer := c.clock.NewTimer(c.grace)
	c.mu.Unlock()

	c.logger.Info().Str("dni", maskDNI(dni)).Msg("voting window expired")
	c.hooks.timeExpired()

	// Best-effort: failure is logged, not retried, and never blocks the
	// Expired transition.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
		defer cancel()
		count, err := c.gateway.InvalidateVotes(ctx, dni)
		if err != nil {
			c.logger.Warn().Err(err).Msg("failed to invalidate votes on timeout")
			return
		}
		c.logger.Info().Int("invalidated", count).Msg("votes invalidated after timeout")
	}()

	go func(t clockwork.Timer) {
		select {
		case <-t.Chan():
			c.finishExpired()
		case <-c.done:
			stopAndDrainTimer(t)
		}
	}(timer)
}

// finishExpired completes TimingOut -> Expired after the grace delay,
// regardless of the invalidation call's outcome.
func (c *Controller) finishExpired() {
	c.mu.Lock()
	if c.status != StatusTimingOut {
		c.mu.Unlock()
		return
	}
	c.ballot.Clear()
	c.clearSessionLocked()
	c.status = StatusExpired
	c.mu.Unlock()

	c.logger.Info().Msg("session expired; returning to identity step")
	c.hooks.redirect()
}

func (c *Controller) stopTickerLocked() {
	if c.tickStop != nil {
		close(c.tickStop)
		c.tickStop = nil
	}
}

// clearSessionLocked removes the persisted voter record, dni and time
// anchor. They always go together.
func (c *Controller) clearSessionLocked() {
	for _, key := range []string{storage.KeyVoter, storage.KeyVoterDNI, storage.KeySessionStart} {
		if err := c.store.Delete(key); err != nil {
			c.logger.Error().Err(err).Str("key", key).Msg("failed to clear session key")
		}
	}
}

func (c *Controller) clearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSessionLocked()
}

// maskDNI hides all but the last two digits in logs.
func maskDNI(dni string) string {
	if len(dni) <= 2 {
		return dni
	}
	masked := make([]byte, len(dni))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(dni)-2:], dni[len(dni)-2:])
	return string(masked)
}
