package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy_storefront/internal/models"
	"pharmacy_storefront/internal/storage"
	"pharmacy_storefront/internal/store"
)

func cartRouter(st *storage.MemoryStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCartHandler(st, st)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("session_id", "session-a") })
	r.GET("/api/cart", h.GetCart)
	r.POST("/api/cart/add", h.AddToCart)
	r.PATCH("/api/cart/:medicineId", h.UpdateQuantity)
	r.DELETE("/api/cart/:medicineId", h.RemoveFromCart)
	r.DELETE("/api/cart", h.ClearCart)
	return r
}

func addPayload(id int, price float64, stock, quantity int) []byte {
	body, _ := json.Marshal(gin.H{
		"medicine": models.Medicine{ID: id, Name: fmt.Sprintf("med-%d", id), Price: price, Stock: stock},
		"quantity": quantity,
	})
	return body
}

func doJSON(r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddToCartPersistsLine(t *testing.T) {
	st := storage.NewMemory()
	r := cartRouter(st)

	w := doJSON(r, http.MethodPost, "/api/cart/add", addPayload(1, 500, 10, 2))
	require.Equal(t, http.StatusOK, w.Code)

	// L'état est durable, pas seulement dans la réponse
	ledger := store.NewCartLedger("session-a", st, nil)
	ledger.Load(context.Background())
	require.Len(t, ledger.Items(), 1)
	assert.Equal(t, 2, ledger.Items()[0].Quantity)
	assert.InDelta(t, 1000.0, ledger.Total(), 1e-9)
}

func TestAddToCartClampsToStock(t *testing.T) {
	st := storage.NewMemory()
	r := cartRouter(st)

	w := doJSON(r, http.MethodPost, "/api/cart/add", addPayload(1, 500, 3, 99))
	require.Equal(t, http.StatusOK, w.Code)

	ledger := store.NewCartLedger("session-a", st, nil)
	ledger.Load(context.Background())
	require.Len(t, ledger.Items(), 1)
	assert.Equal(t, 3, ledger.Items()[0].Quantity)
}

func TestAddToCartRejectsBadInput(t *testing.T) {
	st := storage.NewMemory()
	r := cartRouter(st)

	w := doJSON(r, http.MethodPost, "/api/cart/add", addPayload(1, 500, 10, 0))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/cart/add", addPayload(1, 500, 0, 1))
	assert.Equal(t, http.StatusBadRequest, w.Code, "rupture de stock")
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	st := storage.NewMemory()
	r := cartRouter(st)

	doJSON(r, http.MethodPost, "/api/cart/add", addPayload(1, 500, 10, 5))

	body, _ := json.Marshal(gin.H{"quantity": -4})
	w := doJSON(r, http.MethodPatch, "/api/cart/1", body)
	require.Equal(t, http.StatusOK, w.Code)

	ledger := store.NewCartLedger("session-a", st, nil)
	ledger.Load(context.Background())
	assert.Equal(t, 1, ledger.Items()[0].Quantity)
}

func TestRemoveAndClear(t *testing.T) {
	st := storage.NewMemory()
	r := cartRouter(st)

	doJSON(r, http.MethodPost, "/api/cart/add", addPayload(1, 500, 10, 2))
	doJSON(r, http.MethodPost, "/api/cart/add", addPayload(2, 300, 5, 1))

	w := doJSON(r, http.MethodDelete, "/api/cart/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Retrait répété : toujours 200, pas d'erreur
	w = doJSON(r, http.MethodDelete, "/api/cart/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	ledger := store.NewCartLedger("session-a", st, nil)
	ledger.Load(context.Background())
	assert.True(t, ledger.IsEmpty())
}

func TestGetCartReportsTotalAndCount(t *testing.T) {
	st := storage.NewMemory()
	r := cartRouter(st)

	doJSON(r, http.MethodPost, "/api/cart/add", addPayload(1, 500, 10, 2))
	doJSON(r, http.MethodPost, "/api/cart/add", addPayload(2, 300, 5, 1))

	w := doJSON(r, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []models.CartItem `json:"items"`
		Total float64           `json:"total"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.InDelta(t, 1300.0, resp.Total, 1e-9)
	assert.Equal(t, 2, resp.Count)
}
