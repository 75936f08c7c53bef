package routes

import (
	"github.com/gin-gonic/gin"

	"pharmacy_storefront/internal/handlers"
	"pharmacy_storefront/internal/middleware"
	"pharmacy_storefront/internal/storage"
)

// Handlers regroupe les handlers injectés dans le routeur.
type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Cart     *handlers.CartHandler
	Auth     *handlers.AuthHandler
	Checkout *handlers.CheckoutHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, st storage.Storage) {
	api := r.Group("/api", middleware.SessionID())

	// Catalogue
	api.GET("/medicines", h.Catalog.ListMedicines)

	// Panier
	api.GET("/cart", h.Cart.GetCart)
	api.POST("/cart/add", h.Cart.AddToCart)
	api.PATCH("/cart/:medicineId", h.Cart.UpdateQuantity)
	api.DELETE("/cart/:medicineId", h.Cart.RemoveFromCart)
	api.DELETE("/cart", h.Cart.ClearCart)
	api.GET("/cart/ws", h.Cart.CartWebSocket)

	// Session
	api.POST("/auth/login", middleware.LoginRateLimit(st), h.Auth.Login)
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/profile", h.Auth.GetProfile)

	// Checkout
	api.POST("/checkout", middleware.CheckoutRateLimit(st), h.Checkout.Checkout)
}
