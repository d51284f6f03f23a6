package order

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

// State tags the submission state machine. A tagged state makes illegal
// combinations (submitting and failed at once) unrepresentable.
type State string

const (
	StateIdle       State = "IDLE"
	StateSubmitting State = "SUBMITTING"
	StateSubmitted  State = "SUBMITTED"
	StateFailed     State = "FAILED"
)

var (
	// ErrEmptyCart rejects a submission before any state transition or
	// network call happens.
	ErrEmptyCart = domain.NewError(domain.KindValidation, "cart is empty, nothing to submit")

	// ErrAlreadySubmitting guards the single-flight invariant: at most one
	// in-flight order submission per checkout session.
	ErrAlreadySubmitting = domain.NewError(domain.KindAlreadySubmitting, "an order submission is already in flight")
)

// Poster is the backend boundary used for order creation.
type Poster interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (*domain.Order, error)
}

// Submitter drives Idle -> Submitting -> {Submitted | Failed}. Re-submission
// after Failed re-enters Submitting with the same idempotency key, so a retry
// of a submission that actually committed collapses server-side instead of
// double-charging.
type Submitter struct {
	backend Poster
	timeout time.Duration

	mu      sync.Mutex
	state   State
	idemKey string
	lastErr error
}

func NewSubmitter(backend Poster, timeout time.Duration) *Submitter {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Submitter{
		backend: backend,
		timeout: timeout,
		state:   StateIdle,
	}
}

func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure from the most recent submission, if any.
func (s *Submitter) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Submit builds an order from the line snapshot and issues exactly one
// network call. The caller owns the snapshot and the cart: clearing happens
// only after this returns successfully, and the same snapshot is what any
// post-commit bookkeeping should record.
func (s *Submitter) Submit(ctx context.Context, lines []domain.CartLine) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrAlreadySubmitting
	}
	s.state = StateSubmitting
	if s.idemKey == "" {
		s.idemKey = uuid.NewString()
	}
	key := s.idemKey
	s.mu.Unlock()

	// An order, once sent, is not user-cancellable; the submission always
	// runs to a definitive outcome bounded by the timeout, so the state
	// machine can never be left in Submitting.
	subCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	ord, err := s.backend.CreateOrder(subCtx, domain.BuildOrderRequest(lines), key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		return nil, err
	}
	s.state = StateSubmitted
	s.idemKey = "" // spent; the next order gets a fresh key
	s.lastErr = nil
	return ord, nil
}
