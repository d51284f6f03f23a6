package receipt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

// Status is what the presentation layer shows while a receipt is retrieved.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusGenerating Status = "GENERATING"
	StatusReady      Status = "READY"
	StatusFailed     Status = "FAILED"
)

// Getter is the backend boundary used for receipt retrieval.
type Getter interface {
	FetchReceipt(ctx context.Context, orderID int64) ([]byte, error)
}

// Fetcher retrieves the generated receipt for a committed order. Receipt
// failure is independent of order success: the order is already committed by
// the time Fetch runs, and nothing here rolls it back.
type Fetcher struct {
	backend Getter
	timeout time.Duration
	dir     string // staging directory for handles; "" means the OS default

	mu     sync.Mutex
	status Status
}

func NewFetcher(backend Getter, timeout time.Duration, dir string) *Fetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		backend: backend,
		timeout: timeout,
		dir:     dir,
		status:  StatusIdle,
	}
}

func (f *Fetcher) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Fetch retrieves the receipt and stages it behind a revocable handle. The
// caller owns the handle and must release it: download-or-dismiss, or at
// session teardown, whichever comes first. Retrieval is not automatically
// retried on failure.
func (f *Fetcher) Fetch(ctx context.Context, orderID int64) (*Handle, error) {
	f.mu.Lock()
	if f.status == StatusGenerating {
		f.mu.Unlock()
		return nil, domain.NewError(domain.KindReceipt, "a receipt is already being generated")
	}
	f.status = StatusGenerating
	f.mu.Unlock()

	// Like the submission itself, receipt retrieval runs to a definitive
	// outcome bounded by the timeout once issued.
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	data, err := f.backend.FetchReceipt(fetchCtx, orderID)
	if err != nil {
		f.setStatus(StatusFailed)
		return nil, domain.WrapError(domain.KindReceipt, fmt.Sprintf("failed to generate receipt for order %d", orderID), err)
	}

	h, err := newHandle(f.dir, orderID, data)
	if err != nil {
		f.setStatus(StatusFailed)
		return nil, domain.WrapError(domain.KindReceipt, "failed to stage receipt for download", err)
	}
	f.setStatus(StatusReady)
	return h, nil
}

func (f *Fetcher) setStatus(s Status) {
	f.mu.Lock()
	f.status = s
	f.mu.Unlock()
}
