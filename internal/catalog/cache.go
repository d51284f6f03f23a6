package catalog

import (
	"context"
	"errors"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

// PageCache caches catalog pages keyed by the encoded query spec.
type PageCache interface {
	Get(ctx context.Context, key string) (*domain.Page, error)
	Set(ctx context.Context, key string, page *domain.Page) error
}

var ErrCacheMiss = errors.New("cache miss")
