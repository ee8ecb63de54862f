package middlewares

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/odilorg/invoiceflow-saas-sub000/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memIdemStore struct {
	recs map[string]*models.IdempotencyKey
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{recs: make(map[string]*models.IdempotencyKey)}
}

func (m *memIdemStore) FindOrCreate(rec *models.IdempotencyKey) (*models.IdempotencyKey, error) {
	if existing, ok := m.recs[rec.Key]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *rec
	m.recs[rec.Key] = &cp
	out := cp
	return &out, nil
}

func (m *memIdemStore) SaveResponse(key string, status int, body []byte) error {
	if rec, ok := m.recs[key]; ok {
		rec.ResponseStatus = status
		rec.ResponseBody = body
	}
	return nil
}

func idemTestApp(store idemStore, calls *int) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		return c.Next()
	})
	app.Use(idempotencyWithStore(store))
	app.Post("/invoice", func(c *fiber.Ctx) error {
		*calls++
		return c.Status(201).JSON(fiber.Map{"call": *calls})
	})
	return app
}

func TestIdempotencyReplayDoesNotRerunHandler(t *testing.T) {
	store := newMemIdemStore()
	calls := 0
	app := idemTestApp(store, &calls)

	req1 := httptest.NewRequest("POST", "/invoice", strings.NewReader(`{"amount":100}`))
	req1.Header.Set("Content-Type", "application/json")
	req1.Header.Set("Idempotency-Key", "k1")
	resp1, err := app.Test(req1)
	require.NoError(t, err)
	assert.Equal(t, 201, resp1.StatusCode)
	body1, _ := io.ReadAll(resp1.Body)
	assert.Equal(t, 1, calls)

	// Exact replay: cached response comes back, the handler never runs again.
	req2 := httptest.NewRequest("POST", "/invoice", strings.NewReader(`{"amount":100}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("Idempotency-Key", "k1")
	resp2, err := app.Test(req2)
	require.NoError(t, err)
	assert.Equal(t, 201, resp2.StatusCode)
	body2, _ := io.ReadAll(resp2.Body)
	assert.Equal(t, string(body1), string(body2))
	assert.Equal(t, 1, calls)
}

func TestIdempotencyKeyReuseWithDifferentRequest(t *testing.T) {
	store := newMemIdemStore()
	calls := 0
	app := idemTestApp(store, &calls)

	req1 := httptest.NewRequest("POST", "/invoice", strings.NewReader(`{"amount":100}`))
	req1.Header.Set("Content-Type", "application/json")
	req1.Header.Set("Idempotency-Key", "k1")
	_, err := app.Test(req1)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	req2 := httptest.NewRequest("POST", "/invoice", strings.NewReader(`{"amount":999}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("Idempotency-Key", "k1")
	resp2, err := app.Test(req2)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp2.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestIdempotencySkipsRequestsWithoutKey(t *testing.T) {
	store := newMemIdemStore()
	calls := 0
	app := idemTestApp(store, &calls)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/invoice", strings.NewReader(`{"amount":100}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.recs)
}
