package checkout

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/catalog"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/order"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/receipt"
)

// ErrCheckoutInProgress mirrors the submitter's single-flight guard at the
// session level: only one checkout flow may be active at a time.
var ErrCheckoutInProgress = domain.NewError(domain.KindAlreadySubmitting, "a checkout is already in progress")

// Journal records committed orders for end-of-shift reconciliation. Journal
// failures never affect the checkout outcome.
type Journal interface {
	Record(ctx context.Context, ord *domain.Order, lines []domain.CartLine) error
}

// Controller owns one checkout session: the cart, the catalog view and the
// submission/receipt machinery behind it. The Cart -> Order -> Receipt
// sequence is strictly sequential; no step starts before its predecessor
// succeeded.
type Controller struct {
	cart      *domain.Cart
	catalog   *catalog.Query
	submitter *order.Submitter
	receipts  *receipt.Fetcher
	journal   Journal // optional

	mu     sync.Mutex
	active bool
	last   *domain.Order
	handle *receipt.Handle
}

func NewController(cart *domain.Cart, cat *catalog.Query, submitter *order.Submitter, receipts *receipt.Fetcher, journal Journal) *Controller {
	return &Controller{
		cart:      cart,
		catalog:   cat,
		submitter: submitter,
		receipts:  receipts,
		journal:   journal,
	}
}

func (c *Controller) Cart() *domain.Cart       { return c.cart }
func (c *Controller) Catalog() *catalog.Query  { return c.catalog }
func (c *Controller) SubmitState() order.State { return c.submitter.State() }

func (c *Controller) ReceiptStatus() receipt.Status {
	return c.receipts.Status()
}

// Result is everything the presentation layer needs after a checkout: the
// committed order, and either its staged receipt or the independent receipt
// failure.
type Result struct {
	Order      *domain.Order
	Receipt    *receipt.Handle
	ReceiptErr error
}

// Checkout submits the cart, clears it on acknowledged success, then fetches
// the receipt. On a failed submission the cart is left intact so the cashier
// can adjust the affected lines and retry.
func (c *Controller) Checkout(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}
	c.active = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.active = false
		c.mu.Unlock()
	}()

	// One snapshot feeds both the submission and the journal, so the record
	// always matches what was actually sent even if the cart mutates mid-flight.
	lines := c.cart.Lines()
	ord, err := c.submitter.Submit(ctx, lines)
	if err != nil {
		return nil, err
	}

	// The order is committed; clearing the cart is atomic with the success
	// acknowledgment and happens before anything that can still fail.
	c.cart.Clear()

	if c.journal != nil {
		if jerr := c.journal.Record(ctx, ord, lines); jerr != nil {
			log.Printf("journal record failed for order %d: %v", ord.ID, jerr)
		}
	}

	res := &Result{Order: ord}
	h, rerr := c.receipts.Fetch(ctx, ord.ID)
	if rerr != nil {
		// Order success is never rolled back because the receipt failed.
		res.ReceiptErr = rerr
	} else {
		res.Receipt = h
	}

	c.mu.Lock()
	c.last = ord
	if c.handle != nil {
		_ = c.handle.Release() // replaced before it was dismissed
	}
	c.handle = res.Receipt
	c.mu.Unlock()

	return res, nil
}

// LastOrder returns the most recently committed order, if any.
func (c *Controller) LastOrder() *domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// ReceiptHandle returns the currently staged receipt, if any.
func (c *Controller) ReceiptHandle() *receipt.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// DismissReceipt releases the staged receipt, if any.
func (c *Controller) DismissReceipt() {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.mu.Unlock()
	if h != nil {
		if err := h.Release(); err != nil {
			log.Printf("failed to release receipt for order %d: %v", h.OrderID(), err)
		}
	}
}

// Close tears the session down. Any staged receipt is released and any
// in-flight catalog fetch is cancelled.
func (c *Controller) Close() error {
	c.catalog.Cancel()
	c.DismissReceipt()
	return nil
}

// UserMessage is the single user-visible surface every pipeline error is
// recovered into at this boundary.
type UserMessage struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
	Retry   bool             `json:"retry"`
}

// Describe turns any pipeline error into a user message plus machine-readable
// kind. Transient kinds carry a retry affordance; validation and race guards
// do not.
func Describe(err error) UserMessage {
	kind := domain.KindOf(err)
	message := "something went wrong, please try again"

	var e *domain.Error
	if errors.As(err, &e) {
		message = e.Message
	}

	var retry bool
	switch kind {
	case domain.KindTransport, domain.KindTimeout, domain.KindServerRejection, domain.KindReceipt:
		retry = true
	}
	return UserMessage{Kind: kind, Message: message, Retry: retry}
}
