package receipt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	ErrReleased = errors.New("receipt handle already released")
	ErrConsumed = errors.New("receipt handle already downloaded")
)

// Handle is a single-use, revocable local reference to a fetched receipt.
// It is acquired on fetch success and must be released exactly once: after
// the download, on dismiss, or at session teardown.
type Handle struct {
	mu       sync.Mutex
	orderID  int64
	path     string
	size     int64
	opened   bool
	released bool
}

func newHandle(dir string, orderID int64, data []byte) (*Handle, error) {
	tmp, err := os.CreateTemp(dir, fmt.Sprintf("receipt-%d-*.pdf", orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write receipt file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to close receipt file: %w", err)
	}
	return &Handle{
		orderID: orderID,
		path:    tmp.Name(),
		size:    int64(len(data)),
	}, nil
}

func (h *Handle) OrderID() int64 {
	return h.orderID
}

func (h *Handle) Size() int64 {
	return h.size
}

// Open yields the receipt content. A handle serves exactly one download.
func (h *Handle) Open() (io.ReadCloser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil, ErrReleased
	}
	if h.opened {
		return nil, ErrConsumed
	}
	f, err := os.Open(h.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open receipt file: %w", err)
	}
	h.opened = true
	return f, nil
}

// Release revokes the handle and removes the staged file. Idempotent.
func (h *Handle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	h.released = true
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove receipt file: %w", err)
	}
	return nil
}
