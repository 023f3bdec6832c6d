package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aryamw/shopcarts/internal/shopcarts"
	"github.com/go-chi/chi/v5"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedEvent struct {
	Key   string
	Value []byte
}

type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *capturePublisher) Publish(key, value []byte, _ ...kafkago.Header) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Key: string(key), Value: value})
}

func (p *capturePublisher) types(t *testing.T) []string {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		var env shopcarts.Envelope
		require.NoError(t, json.Unmarshal(e.Value, &env))
		out = append(out, env.EventType)
	}
	return out
}

func newTestServer() (*chi.Mux, *capturePublisher) {
	repo := shopcarts.NewMemoryRepo()
	pub := &capturePublisher{}
	r := NewRouter()
	ch := &CartsHandler{Carts: &shopcarts.CartService{Repo: repo}, Producer: pub, Service: "test-api"}
	ch.Register(r)
	ih := &ItemsHandler{Items: &shopcarts.ItemService{Repo: repo}, Producer: pub, Service: "test-api"}
	ih.Register(r)
	return r, pub
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func createCart(t *testing.T, r http.Handler, customerID int64) int64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/shopcarts", fmt.Sprintf(`{"customer_id": %d}`, customerID))
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		ShopcartID int64 `json:"shopcart_id"`
	}
	decodeBody(t, w, &resp)
	require.NotZero(t, resp.ShopcartID)
	return resp.ShopcartID
}

func TestIndexAndHealth(t *testing.T) {
	r, _ := newTestServer()

	w := doJSON(t, r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var idx struct {
		Name  string `json:"name"`
		Paths string `json:"paths"`
	}
	decodeBody(t, w, &idx)
	assert.NotEmpty(t, idx.Name)
	assert.Equal(t, "/shopcarts", idx.Paths)

	w = doJSON(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var h map[string]string
	decodeBody(t, w, &h)
	assert.Equal(t, "OK", h["status"])
}

func TestCreateCart(t *testing.T) {
	r, pub := newTestServer()

	w := doJSON(t, r, http.MethodPost, "/shopcarts", `{"customer_id": 1001}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ShopcartID int64 `json:"shopcart_id"`
		CustomerID int64 `json:"customer_id"`
	}
	decodeBody(t, w, &resp)
	assert.NotZero(t, resp.ShopcartID)
	assert.EqualValues(t, 1001, resp.CustomerID)
	assert.Equal(t, fmt.Sprintf("/shopcarts/%d", resp.ShopcartID), w.Header().Get("Location"))

	assert.Equal(t, []string{shopcarts.EventCartCreated}, pub.types(t))
}

func TestCreateCartBadBody(t *testing.T) {
	r, _ := newTestServer()

	for name, body := range map[string]string{
		"missing customer_id": `{}`,
		"wrong type":          `{"customer_id": "abc"}`,
		"unknown field":       `{"customer_id": 1, "color": "red"}`,
		"not json":            `customer_id=1`,
	} {
		w := doJSON(t, r, http.MethodPost, "/shopcarts", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)

		var e struct {
			Message string `json:"message"`
		}
		decodeBody(t, w, &e)
		assert.NotEmpty(t, e.Message, name)
	}
}

func TestGetCart(t *testing.T) {
	r, _ := newTestServer()
	id := createCart(t, r, 7)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/shopcarts/%d", id), "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/shopcarts/999999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/shopcarts/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateCart(t *testing.T) {
	r, _ := newTestServer()
	id := createCart(t, r, 7)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/shopcarts/%d", id), `{"customer_id": 42}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		CustomerID int64 `json:"customer_id"`
	}
	decodeBody(t, w, &resp)
	assert.EqualValues(t, 42, resp.CustomerID)

	w = doJSON(t, r, http.MethodPut, "/shopcarts/999999", `{"customer_id": 42}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/shopcarts/%d", id), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCartIdempotent(t *testing.T) {
	r, _ := newTestServer()
	id := createCart(t, r, 4001)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/shopcarts/%d", id), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	// second delete still succeeds
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/shopcarts/%d", id), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/shopcarts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var carts []struct {
		CustomerID int64 `json:"customer_id"`
	}
	decodeBody(t, w, &carts)
	for _, c := range carts {
		assert.NotEqualValues(t, 4001, c.CustomerID)
	}
}

func TestListCartsWithFilter(t *testing.T) {
	r, _ := newTestServer()
	createCart(t, r, 100)
	createCart(t, r, 100)
	createCart(t, r, 200)

	w := doJSON(t, r, http.MethodGet, "/shopcarts?customer_id=100", "")
	require.Equal(t, http.StatusOK, w.Code)
	var carts []struct {
		CustomerID int64 `json:"customer_id"`
	}
	decodeBody(t, w, &carts)
	require.Len(t, carts, 2)
	for _, c := range carts {
		assert.EqualValues(t, 100, c.CustomerID)
	}

	w = doJSON(t, r, http.MethodGet, "/shopcarts?customer_id=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/shopcarts?customer_id=300", "")
	require.Equal(t, http.StatusOK, w.Code)
	carts = nil
	decodeBody(t, w, &carts)
	assert.Empty(t, carts)
}

func TestCreateItemAndClear(t *testing.T) {
	r, pub := newTestServer()
	id := createCart(t, r, 1)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/shopcarts/%d/items", id),
		`{"product_id": 123, "quantity": 2, "unit_price": "10.00"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var it struct {
		ItemID     int64  `json:"item_id"`
		ShopcartID int64  `json:"shopcart_id"`
		ProductID  int64  `json:"product_id"`
		Quantity   int    `json:"quantity"`
		Price      string `json:"price"`
	}
	decodeBody(t, w, &it)
	assert.NotZero(t, it.ItemID)
	assert.Equal(t, id, it.ShopcartID)
	assert.EqualValues(t, 123, it.ProductID)
	assert.Equal(t, 2, it.Quantity)
	assert.Equal(t, "20.00", it.Price)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/shopcarts/%d/clear", id), "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/shopcarts/%d/items", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []json.RawMessage
	decodeBody(t, w, &listed)
	assert.Empty(t, listed)

	assert.Equal(t, []string{
		shopcarts.EventCartCreated,
		shopcarts.EventItemCreated,
		shopcarts.EventCartCleared,
	}, pub.types(t))
}

func TestCreateItemLegacyPrice(t *testing.T) {
	r, _ := newTestServer()
	id := createCart(t, r, 1)

	// admin page sends the pre-multiplied total; the server recomputes
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/shopcarts/%d/items", id),
		`{"product_id": 5, "quantity": 4, "price": 20.00}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var it struct {
		Price string `json:"price"`
	}
	decodeBody(t, w, &it)
	assert.Equal(t, "20.00", it.Price)
}

func TestCreateItemFailures(t *testing.T) {
	r, _ := newTestServer()
	id := createCart(t, r, 1)

	w := doJSON(t, r, http.MethodPost, "/shopcarts/999999/items",
		`{"product_id": 1, "quantity": 1, "unit_price": "1.00"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for name, body := range map[string]string{
		"missing product_id": `{"quantity": 1, "unit_price": "1.00"}`,
		"missing quantity":   `{"product_id": 1, "unit_price": "1.00"}`,
		"missing price":      `{"product_id": 1, "quantity": 1}`,
		"bad quantity":       `{"product_id": 1, "quantity": "two", "unit_price": "1.00"}`,
		"zero quantity":      `{"product_id": 1, "quantity": 0, "unit_price": "1.00"}`,
		"unknown field":      `{"product_id": 1, "quantity": 1, "unit_price": "1.00", "note": "x"}`,
	} {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/shopcarts/%d/items", id), body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestGetItem(t *testing.T) {
	r, _ := newTestServer()
	id := createCart(t, r, 1)
	other := createCart(t, r, 2)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/shopcarts/%d/items", id),
		`{"product_id": 1, "quantity": 1, "unit_price": "2.50"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var it struct {
		ItemID int64 `json:"item_id"`
	}
	decodeBody(t, w, &it)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/shopcarts/%d/items/%d", id, it.ItemID), "")
	assert.Equal(t, http.StatusOK, w.Code)

	// wrong cart and missing item are the same 404
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/shopcarts/%d/items/%d", other, it.ItemID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/shopcarts/%d/items/999", id), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateItemRecomputesPrice(t *testing.T) {
	r, _ := newTestServer()
	id := createCart(t, r, 1)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/shopcarts/%d/items", id),
		`{"product_id": 1, "quantity": 1, "unit_price": "5.00"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var it struct {
		ItemID int64  `json:"item_id"`
		Price  string `json:"price"`
	}
	decodeBody(t, w, &it)
	require.Equal(t, "5.00", it.Price)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/shopcarts/%d/items/%d", id, it.ItemID),
		`{"quantity": 4}`)
	require.Equal(t, http.StatusOK, w.Code)
	var upd struct {
		Quantity int    `json:"quantity"`
		Price    string `json:"price"`
	}
	decodeBody(t, w, &upd)
	assert.Equal(t, 4, upd.Quantity)
	assert.Equal(t, "20.00", upd.Price)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/shopcarts/%d/items", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []struct {
		Price string `json:"price"`
	}
	decodeBody(t, w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "20.00", listed[0].Price)
}

func TestUpdateItemFailures(t *testing.T) {
	r, _ := newTestServer()
	id := createCart(t, r, 1)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/shopcarts/%d/items/999", id), `{"quantity": 2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/shopcarts/999999/items/1", `{"quantity": 2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/shopcarts/%d/items", id),
		`{"product_id": 1, "quantity": 1, "unit_price": "1.00"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var it struct {
		ItemID int64 `json:"item_id"`
	}
	decodeBody(t, w, &it)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/shopcarts/%d/items/%d", id, it.ItemID),
		`{"quantity": "four"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteItemIdempotent(t *testing.T) {
	r, _ := newTestServer()
	id := createCart(t, r, 1)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/shopcarts/%d/items", id),
		`{"product_id": 1, "quantity": 1, "unit_price": "1.00"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var it struct {
		ItemID int64 `json:"item_id"`
	}
	decodeBody(t, w, &it)

	path := fmt.Sprintf("/shopcarts/%d/items/%d", id, it.ItemID)
	w = doJSON(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestListItemsMissingCart(t *testing.T) {
	r, _ := newTestServer()
	w := doJSON(t, r, http.MethodGet, "/shopcarts/999999/items", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartEventEnvelope(t *testing.T) {
	r, pub := newTestServer()
	id := createCart(t, r, 55)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 1)
	assert.Equal(t, fmt.Sprint(id), pub.events[0].Key)

	var env shopcarts.Envelope
	require.NoError(t, json.Unmarshal(pub.events[0].Value, &env))
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, shopcarts.EventCartCreated, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "test-api", env.Producer)
	assert.Equal(t, fmt.Sprint(id), env.CorrelationID)

	var p shopcarts.CartPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, id, p.ShopcartID)
	assert.EqualValues(t, 55, p.CustomerID)
}
