package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pharmacy_storefront/internal/storage"
)

const (
	// Limites par endpoint
	CheckoutMaxAttempts = 10
	LoginMaxAttempts    = 5

	// Fenêtres de comptage
	CheckoutWindow = 1 * time.Minute
	LoginWindow    = 15 * time.Minute
)

// CheckoutRateLimit limite les tentatives de checkout par session, pour
// éviter qu'un double-clic ne bombarde le backend de commandes.
func CheckoutRateLimit(st storage.Storage) gin.HandlerFunc {
	return rateLimit(st, "checkout_attempts:", CheckoutMaxAttempts, CheckoutWindow,
		"Trop de tentatives de commande. Réessayez dans un instant")
}

// LoginRateLimit limite les tentatives de connexion par session.
func LoginRateLimit(st storage.Storage) gin.HandlerFunc {
	return rateLimit(st, "login_attempts:", LoginMaxAttempts, LoginWindow,
		"Trop de tentatives de connexion. Réessayez plus tard")
}

func rateLimit(st storage.Storage, prefix string, max int64, window time.Duration, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetString("session_id")
		if sid == "" {
			c.Next()
			return
		}

		count, err := st.Incr(context.Background(), prefix+sid, window)
		if err != nil {
			// Stockage indisponible : on laisse passer plutôt que de bloquer
			log.Printf("⚠️ Rate limit indisponible: %v", err)
			c.Next()
			return
		}

		if count > max {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       message,
				"retry_after": int(window.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
