package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacy_storefront/internal/checkout"
	"pharmacy_storefront/internal/storage"
	"pharmacy_storefront/internal/store"
)

// CheckoutHandler lance la séquence de commande et traduit la taxonomie
// d'erreurs du séquenceur en statuts HTTP.
type CheckoutHandler struct {
	storage   storage.Storage
	notifier  storage.Notifier
	api       store.AuthAPI
	sequencer *checkout.Sequencer
}

func NewCheckoutHandler(st storage.Storage, n storage.Notifier, api store.AuthAPI, seq *checkout.Sequencer) *CheckoutHandler {
	return &CheckoutHandler{storage: st, notifier: n, api: api, sequencer: seq}
}

//
// 🟢 POST /api/checkout
//
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	ctx := c.Request.Context()
	sid := c.GetString("session_id")

	// 1. Récupérer le panier
	ledger := store.NewCartLedger(sid, h.storage, h.notifier)
	ledger.Load(ctx)

	if ledger.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	// 2. Restaurer la session et rafraîchir le profil (le solde doit être
	// celui du serveur, pas un cache)
	session := store.NewAuthSession(sid, h.api, h.storage)
	session.Load(ctx)
	if session.Token() != "" {
		if err := session.FetchProfile(ctx); err != nil {
			log.Printf("⚠️ Profil indisponible avant checkout: %v", err)
		}
	}

	orders := len(ledger.Items())

	// 3. Dérouler la séquence
	total, err := h.sequencer.Run(ctx, ledger, session)

	var submitErr *checkout.SubmitError
	switch {
	case errors.Is(err, checkout.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Connectez-vous pour passer commande"})

	case errors.Is(err, checkout.ErrInsufficientBalance):
		// Signal au client d'ouvrir le parcours de rechargement
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":            "Solde insuffisant. Rechargez votre compte",
			"payment_required": true,
			"total":            total,
			"balance":          session.Profile().AccountBalance,
		})

	case errors.As(err, &submitErr):
		// Arrêt en cours de séquence : pas de rollback, panier intact
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Échec de la commande",
			"submitted": submitErr.Submitted,
			"remaining": orders - submitErr.Submitted,
		})

	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Échec de la commande"})

	default:
		log.Printf("✅ Checkout complet session %s: %d commande(s), total %.2f", sid, orders, total)
		c.JSON(http.StatusOK, gin.H{
			"message": "Commandes passées avec succès",
			"orders":  orders,
			"total":   total,
		})
	}
}
