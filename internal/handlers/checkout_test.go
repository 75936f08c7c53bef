package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy_storefront/internal/checkout"
	"pharmacy_storefront/internal/models"
	"pharmacy_storefront/internal/storage"
	"pharmacy_storefront/internal/store"
)

// fakeBackend joue le backend distant pour le handler de checkout.
type fakeBackend struct {
	profile    *models.Profile
	profileErr error
	orders     [][2]int // (medicineID, quantité) dans l'ordre reçu
	orderErrAt int      // 1-based, 0 = jamais
}

func (f *fakeBackend) Token(ctx context.Context, username, password string) (string, error) {
	return "pms_abc123", nil
}
func (f *fakeBackend) LegacyLogin(ctx context.Context, token string) error { return nil }
func (f *fakeBackend) Profile(ctx context.Context, token string) (*models.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}
func (f *fakeBackend) Register(ctx context.Context, data models.RegisterData) error { return nil }

func (f *fakeBackend) PlaceOrder(ctx context.Context, token string, medicineID, quantity int) error {
	if f.orderErrAt > 0 && len(f.orders)+1 == f.orderErrAt {
		return errors.New("backend en erreur")
	}
	f.orders = append(f.orders, [2]int{medicineID, quantity})
	return nil
}

func checkoutRouter(st *storage.MemoryStorage, backend *fakeBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCheckoutHandler(st, st, backend, checkout.NewSequencer(backend))

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("session_id", "session-a") })
	r.POST("/api/checkout", h.Checkout)
	return r
}

func seedCheckout(t *testing.T, st *storage.MemoryStorage, authenticated bool) {
	t.Helper()
	ctx := context.Background()

	ledger := store.NewCartLedger("session-a", st, st)
	ledger.Load(ctx)
	ledger.AddItem(ctx, models.Medicine{ID: 1, Name: "Paracétamol", Price: 500, Stock: 10}, 2)
	ledger.AddItem(ctx, models.Medicine{ID: 2, Name: "Amoxicilline", Price: 300, Stock: 5}, 1)

	if authenticated {
		require.NoError(t, st.Set(ctx, "token:session-a", "pms_abc123", 0))
	}
}

func remainingCart(st *storage.MemoryStorage) []models.CartItem {
	ledger := store.NewCartLedger("session-a", st, nil)
	ledger.Load(context.Background())
	return ledger.Items()
}

func TestCheckoutEndpointFullSuccess(t *testing.T) {
	st := storage.NewMemory()
	backend := &fakeBackend{profile: &models.Profile{Username: "johndoe", AccountBalance: 2000}}
	r := checkoutRouter(st, backend)
	seedCheckout(t, st, true)

	w := doJSON(r, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, backend.orders, 2)
	assert.Equal(t, [2]int{1, 2}, backend.orders[0])
	assert.Equal(t, [2]int{2, 1}, backend.orders[1])
	assert.Empty(t, remainingCart(st), "panier vidé")

	var resp struct {
		Orders int     `json:"orders"`
		Total  float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Orders)
	assert.InDelta(t, 1300.0, resp.Total, 1e-9)
}

func TestCheckoutEndpointInsufficientBalance(t *testing.T) {
	st := storage.NewMemory()
	backend := &fakeBackend{profile: &models.Profile{Username: "johndoe", AccountBalance: 1000}}
	r := checkoutRouter(st, backend)
	seedCheckout(t, st, true)

	w := doJSON(r, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusPaymentRequired, w.Code)

	assert.Empty(t, backend.orders, "aucune commande soumise")
	assert.Len(t, remainingCart(st), 2, "panier intact")

	var resp struct {
		PaymentRequired bool    `json:"payment_required"`
		Total           float64 `json:"total"`
		Balance         float64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.PaymentRequired)
	assert.InDelta(t, 1300.0, resp.Total, 1e-9)
	assert.InDelta(t, 1000.0, resp.Balance, 1e-9)
}

func TestCheckoutEndpointUnauthenticated(t *testing.T) {
	st := storage.NewMemory()
	backend := &fakeBackend{profile: &models.Profile{Username: "johndoe", AccountBalance: 2000}}
	r := checkoutRouter(st, backend)
	seedCheckout(t, st, false) // pas de token

	w := doJSON(r, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, backend.orders)
	assert.Len(t, remainingCart(st), 2)
}

func TestCheckoutEndpointPartialFailure(t *testing.T) {
	st := storage.NewMemory()
	backend := &fakeBackend{
		profile:    &models.Profile{Username: "johndoe", AccountBalance: 2000},
		orderErrAt: 2,
	}
	r := checkoutRouter(st, backend)
	seedCheckout(t, st, true)

	w := doJSON(r, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	// Une ligne partie, pas de rollback, panier intact
	require.Len(t, backend.orders, 1)
	assert.Len(t, remainingCart(st), 2)

	var resp struct {
		Submitted int `json:"submitted"`
		Remaining int `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Submitted)
	assert.Equal(t, 1, resp.Remaining)
}

func TestCheckoutEndpointEmptyCart(t *testing.T) {
	st := storage.NewMemory()
	backend := &fakeBackend{profile: &models.Profile{Username: "johndoe", AccountBalance: 2000}}
	r := checkoutRouter(st, backend)

	w := doJSON(r, http.MethodPost, "/api/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
