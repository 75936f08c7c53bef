package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pharmacy_storefront/internal/api"
	"pharmacy_storefront/internal/checkout"
	"pharmacy_storefront/internal/config"
	"pharmacy_storefront/internal/handlers"
	"pharmacy_storefront/internal/routes"
	"pharmacy_storefront/internal/storage"
)

func main() {
	config.Load()

	// Stockage durable (panier + token de session)
	st, err := storage.NewRedis()
	if err != nil {
		log.Fatal("❌ Impossible d'initialiser le stockage: ", err)
	}
	defer st.Close()

	// Client des backends distants
	client := api.NewClient(
		config.Get("PHARMACY_API_URL", "http://localhost:8000/api"),
		config.Get("LEGACY_API_URL", "http://localhost:8000"),
	)
	log.Println("✅ Client pharmacie initialisé")

	sequencer := checkout.NewSequencer(client)

	h := routes.Handlers{
		Catalog:  handlers.NewCatalogHandler(client, st),
		Cart:     handlers.NewCartHandler(st, st),
		Auth:     handlers.NewAuthHandler(st, client),
		Checkout: handlers.NewCheckoutHandler(st, st, client, sequencer),
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.Get("FRONTEND_URL", "http://localhost:5173")},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(r, h, st)

	port := config.Get("PORT", "8080")
	log.Println("🚀 Storefront pharmacie lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Serveur arrêté: ", err)
	}
}
