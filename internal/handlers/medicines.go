package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pharmacy_storefront/internal/api"
	"pharmacy_storefront/internal/models"
	"pharmacy_storefront/internal/storage"
	"pharmacy_storefront/internal/store"
)

// Les réponses catalogue sont mises en cache quelques minutes : le
// catalogue bouge peu et la page d'accueil le recharge à chaque filtre.
const medicineCacheTTL = 10 * time.Minute

// CatalogHandler liste le catalogue distant avec filtres nom / catégorie /
// prix, derrière un cache Redis.
type CatalogHandler struct {
	client  *api.Client
	storage storage.Storage
}

func NewCatalogHandler(client *api.Client, st storage.Storage) *CatalogHandler {
	return &CatalogHandler{client: client, storage: st}
}

//
// 🟢 GET /api/medicines?name=&category=&price=&limit=
//
func (h *CatalogHandler) ListMedicines(c *gin.Context) {
	filter := api.MedicineFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
	}
	if price, err := strconv.ParseFloat(c.Query("price"), 64); err == nil {
		filter.MaxPrice = price
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("medicines:%s:%s:%g:%d",
		filter.Name, filter.Category, filter.MaxPrice, filter.Limit)

	// 1. Essayer le cache
	if data, err := h.storage.Get(ctx, cacheKey); err == nil {
		var medicines []models.Medicine
		if json.Unmarshal([]byte(data), &medicines) == nil {
			c.JSON(http.StatusOK, medicines)
			return
		}
	}

	// 2. Interroger le catalogue distant
	session := store.NewAuthSession(c.GetString("session_id"), h.client, h.storage)
	session.Load(ctx)

	medicines, err := h.client.Medicines(ctx, session.Token(), filter)
	if err != nil {
		log.Printf("❌ Erreur catalogue distant: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalogue indisponible"})
		return
	}

	// 3. Mettre en cache
	if data, err := json.Marshal(medicines); err == nil {
		h.storage.Set(ctx, cacheKey, string(data), medicineCacheTTL)
	}

	c.JSON(http.StatusOK, medicines)
}
