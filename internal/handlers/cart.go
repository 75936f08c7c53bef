package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacy_storefront/internal/models"
	"pharmacy_storefront/internal/storage"
	"pharmacy_storefront/internal/store"
)

// CartHandler expose le panier de la session navigateur. Chaque requête
// hydrate un CartLedger depuis le stockage durable, applique la mutation
// et laisse le commit persister le nouvel instantané.
type CartHandler struct {
	storage  storage.Storage
	notifier storage.Notifier
}

func NewCartHandler(st storage.Storage, n storage.Notifier) *CartHandler {
	return &CartHandler{storage: st, notifier: n}
}

func (h *CartHandler) ledger(c *gin.Context) *store.CartLedger {
	l := store.NewCartLedger(c.GetString("session_id"), h.storage, h.notifier)
	l.Load(c.Request.Context())
	return l
}

//
// 🟢 GET /api/cart
//
func (h *CartHandler) GetCart(c *gin.Context) {
	l := h.ledger(c)
	c.JSON(http.StatusOK, gin.H{
		"items": l.Items(),
		"total": l.Total(),
		"count": len(l.Items()),
	})
}

//
// 🟢 POST /api/cart/add
//
func (h *CartHandler) AddToCart(c *gin.Context) {
	var input struct {
		Medicine models.Medicine `json:"medicine"`
		Quantity int             `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}
	if input.Medicine.Stock <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rupture de stock"})
		return
	}

	// Le clamp contre le stock se fait ici, pas dans le ledger
	if input.Quantity > input.Medicine.Stock {
		input.Quantity = input.Medicine.Stock
	}

	l := h.ledger(c)
	l.AddItem(c.Request.Context(), input.Medicine, input.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Médicament ajouté au panier",
		"items":   l.Items(),
		"total":   l.Total(),
	})
}

//
// 🔁 PATCH /api/cart/:medicineId
//
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	medicineID, ok := medicineParam(c)
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	// Jamais en dessous de 1, jamais au-dessus du stock de l'instantané
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	l := h.ledger(c)
	for _, item := range l.Items() {
		if item.ID == medicineID && input.Quantity > item.Stock {
			input.Quantity = item.Stock
		}
	}

	l.UpdateQuantity(c.Request.Context(), medicineID, input.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"items": l.Items(),
		"total": l.Total(),
	})
}

//
// ❌ DELETE /api/cart/:medicineId
//
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	medicineID, ok := medicineParam(c)
	if !ok {
		return
	}

	l := h.ledger(c)
	l.RemoveItem(c.Request.Context(), medicineID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Médicament retiré du panier",
		"items":   l.Items(),
		"total":   l.Total(),
	})
}

//
// ❌ DELETE /api/cart
//
func (h *CartHandler) ClearCart(c *gin.Context) {
	l := h.ledger(c)
	l.Clear(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
