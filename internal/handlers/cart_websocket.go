package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pharmacy_storefront/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket pousse l'état du panier à chaque mutation, pour que le
// badge du panier reste juste sans polling.
//
// 🟢 GET /api/cart/ws
//
func (h *CartHandler) CartWebSocket(c *gin.Context) {
	sid := c.GetString("session_id")
	if sid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session absente"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	ledger := store.NewCartLedger(sid, h.storage, h.notifier)

	// S'abonner au canal de cette session
	events, cancel := h.notifier.Subscribe(ctx, ledger.Channel())
	defer cancel()

	conn.WriteJSON(map[string]any{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case payload, ok := <-events:
			if !ok {
				return
			}
			if payload != store.CartUpdated && payload != store.CartCleared {
				continue
			}

			// Recharger l'instantané courant et l'envoyer
			ledger.Load(ctx)
			response := map[string]any{
				"type":  "cart_updated",
				"items": ledger.Items(),
				"total": ledger.Total(),
				"count": len(ledger.Items()),
			}
			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}

		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
