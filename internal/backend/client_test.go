package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
)

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, Timeout: 5 * time.Second})
}

func TestSearchProducts_Success(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		assert.Equal(t, "kopi", r.URL.Query().Get("name"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"items": [
					{"id": 7, "name": "Kopi Susu", "price": 15000, "stock": 3, "status": "AVAILABLE", "category": "Minuman"}
				],
				"totalItem": 1
			}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := WithToken(context.Background(), "cashier-token")

	page, err := client.SearchProducts(ctx, domain.CatalogQuerySpec{Page: 1, Size: 4, Name: "kopi"})

	require.NoError(t, err)
	assert.Equal(t, "Bearer cashier-token", gotAuth)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(7), page.Items[0].ID)
	assert.Equal(t, int64(15000), page.Items[0].Price)
	assert.Equal(t, 1, page.TotalItem)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 4, page.Size)
}

func TestCreateOrder_SendsIdempotencyKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		w.Write([]byte(`{"success": true, "data": {"orderId": 42, "totalAmount": 45000}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	req := domain.OrderRequest{Items: []domain.OrderItem{{ProductID: 7, Quantity: 3}}}

	ord, err := client.CreateOrder(context.Background(), req, "key-123")

	require.NoError(t, err)
	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, int64(42), ord.ID)
	assert.Equal(t, int64(45000), ord.TotalAmount)
}

func TestCreateOrder_ServerRejectionCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success": false, "message": "stock insufficient for item Kopi Susu"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.CreateOrder(context.Background(), domain.OrderRequest{}, "")

	require.Error(t, err)
	assert.Equal(t, domain.KindServerRejection, domain.KindOf(err))
	assert.Contains(t, err.Error(), "stock insufficient")
}

func TestDo_TimeoutIsDistinctFromTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.SearchProducts(ctx, domain.CatalogQuerySpec{Page: 1, Size: 10})

	require.Error(t, err)
	assert.Equal(t, domain.KindTimeout, domain.KindOf(err))
}

func TestDo_TransportErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := newTestClient(srv.URL)

	_, err := client.SearchProducts(context.Background(), domain.CatalogQuerySpec{Page: 1, Size: 10})

	require.Error(t, err)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
}

func TestDo_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)
	for i := 0; i < 6; i++ {
		client.SearchProducts(context.Background(), domain.CatalogQuerySpec{Page: 1, Size: 10})
	}

	_, err := client.SearchProducts(context.Background(), domain.CatalogQuerySpec{Page: 1, Size: 10})

	require.Error(t, err)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
}

func TestFetchReceipt_ReturnsBinaryBody(t *testing.T) {
	pdf := []byte("%PDF-1.4 receipt bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/42/receipt", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	data, err := client.FetchReceipt(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

func TestFetchReceipt_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "message": "receipt renderer unavailable"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.FetchReceipt(context.Background(), 42)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "receipt renderer unavailable")
}
