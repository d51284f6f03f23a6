package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

type tokenKey struct{}

// WithToken attaches the bearer credential supplied by the auth collaborator.
// The client only ever forwards whatever token it is given.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token carried by ctx, if any.
func TokenFrom(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}

type Config struct {
	BaseURL string
	// Timeout is the hard per-request backstop; callers usually carry a
	// tighter deadline on their context.
	Timeout time.Duration
}

// Client is the REST boundary to the POS backend: catalog search, order
// creation and receipt retrieval. All calls go through one circuit breaker.
type Client struct {
	http    *http.Client
	baseURL string
	breaker *gobreaker.CircuitBreaker[*reply]
}

type reply struct {
	status int
	body   []byte
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		breaker: gobreaker.NewCircuitBreaker[*reply](gobreaker.Settings{
			Name:        "pos-backend",
			MaxRequests: 3,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// SearchProducts fetches one page of the catalog. The spec must already be
// validated by the caller; this issues exactly one request.
func (c *Client) SearchProducts(ctx context.Context, spec domain.CatalogQuerySpec) (*domain.Page, error) {
	rep, err := c.do(ctx, http.MethodGet, "/api/v1/products", spec.Values(), nil, "")
	if err != nil {
		return nil, err
	}

	var page domain.Page
	if err := decode(rep, &page); err != nil {
		return nil, err
	}
	page.Page = spec.Page
	page.Size = spec.Size
	return &page, nil
}

// CreateOrder posts the order. The idempotency key lets the backend collapse
// a retried submission whose first attempt actually committed.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest, idempotencyKey string) (*domain.Order, error) {
	rep, err := c.do(ctx, http.MethodPost, "/api/v1/orders", nil, req, idempotencyKey)
	if err != nil {
		return nil, err
	}

	var ord domain.Order
	if err := decode(rep, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// FetchReceipt retrieves the rendered receipt for a committed order as an
// opaque binary artifact.
func (c *Client) FetchReceipt(ctx context.Context, orderID int64) ([]byte, error) {
	rep, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d/receipt", orderID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	if rep.status != http.StatusOK {
		// Failure bodies use the JSON envelope even on the binary endpoint.
		if err := decode(rep, nil); err != nil {
			return nil, err
		}
		return nil, domain.NewError(domain.KindTransport, fmt.Sprintf("backend returned status %d", rep.status))
	}
	return rep.body, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, idempotencyKey string) (*reply, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	rep, err := c.breaker.Execute(func() (*reply, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return &reply{status: resp.StatusCode, body: b}, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return rep, nil
}

// classify maps a failed round trip onto the error taxonomy. Timeouts are
// kept distinct from transport failures; caller-initiated cancellation is
// passed through for the caller to recognize.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.WrapError(domain.KindTimeout, "backend request timed out", err)
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return domain.WrapError(domain.KindTransport, "backend temporarily unavailable", err)
	}

	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return domain.WrapError(domain.KindTimeout, "backend request timed out", err)
	}
	return domain.WrapError(domain.KindTransport, "backend request failed", err)
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(rep *reply, out any) error {
	var env envelope
	if err := json.Unmarshal(rep.body, &env); err != nil {
		if rep.status >= 400 {
			return domain.NewError(domain.KindTransport, fmt.Sprintf("backend returned status %d", rep.status))
		}
		return domain.WrapError(domain.KindTransport, "malformed backend response", err)
	}
	if rep.status >= 400 || !env.Success {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("backend returned status %d", rep.status)
		}
		return domain.NewError(domain.KindServerRejection, message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return domain.WrapError(domain.KindTransport, "malformed backend response", err)
	}
	return nil
}
