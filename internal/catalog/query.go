package catalog

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

// ErrSuperseded is returned when the fetch was cancelled or a newer fetch was
// issued while it was in flight. The stale result is discarded; it never
// reaches the displayed page.
var ErrSuperseded = errors.New("catalog fetch superseded by a newer query")

// Searcher is the backend boundary used for catalog lookups.
type Searcher interface {
	SearchProducts(ctx context.Context, spec domain.CatalogQuerySpec) (*domain.Page, error)
}

// Query fetches catalog pages with last-issued-wins semantics: each FetchPage
// takes a sequence token and cancels the previous in-flight fetch; a result
// whose token is no longer the latest is discarded at resolution time.
type Query struct {
	backend Searcher
	cache   PageCache // nil disables caching
	timeout time.Duration
	sfg     singleflight.Group // prevents cache stampede

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current *domain.Page
}

func NewQuery(backend Searcher, cache PageCache, timeout time.Duration) *Query {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Query{
		backend: backend,
		cache:   cache,
		timeout: timeout,
	}
}

// FetchPage validates the spec locally, then issues one fetch. Whichever
// fetch was issued last wins; earlier fetches resolve to ErrSuperseded.
func (q *Query) FetchPage(ctx context.Context, spec domain.CatalogQuerySpec) (*domain.Page, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	q.mu.Lock()
	q.seq++
	token := q.seq
	if q.cancel != nil {
		// A re-issued identical query must not join the singleflight call
		// whose context is about to be cancelled; it runs its own fetch.
		q.sfg.Forget(spec.CacheKey())
		q.cancel() // supersede the previous in-flight fetch
	}
	fetchCtx, cancel := context.WithTimeout(ctx, q.timeout)
	q.cancel = cancel
	q.mu.Unlock()
	defer cancel()

	page, err := q.lookup(fetchCtx, spec)

	q.mu.Lock()
	defer q.mu.Unlock()
	if token != q.seq {
		return nil, ErrSuperseded
	}
	q.cancel = nil
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, ErrSuperseded
		}
		return nil, err
	}
	q.current = page
	return page, nil
}

func (q *Query) lookup(ctx context.Context, spec domain.CatalogQuerySpec) (*domain.Page, error) {
	if q.cache == nil {
		return q.backend.SearchProducts(ctx, spec)
	}

	key := spec.CacheKey()
	v, err, _ := q.sfg.Do(key, func() (interface{}, error) {
		page, err := q.cache.Get(ctx, key)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("catalog cache get error: %v", err)
		}

		page, err = q.backend.SearchProducts(ctx, spec)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := q.cache.Set(context.Background(), key, page); errSet != nil {
				log.Printf("catalog cache set error: %v", errSet)
			}
		}()

		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Page), nil
}

// Cancel aborts the in-flight fetch, if any, without issuing a new one.
// Used on navigation away from the catalog view.
func (q *Query) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

// Current returns the last successfully applied page, or nil.
func (q *Query) Current() *domain.Page {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// Find looks the product up on the current page. The cashier adds to the
// cart from what is displayed, so this is the add-to-cart snapshot source.
func (q *Query) Find(productID int64) (domain.Product, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return domain.Product{}, false
	}
	for _, p := range q.current.Items {
		if p.ID == productID {
			return p, true
		}
	}
	return domain.Product{}, false
}
