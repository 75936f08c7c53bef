package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacy_storefront/internal/models"
	"pharmacy_storefront/internal/storage"
	"pharmacy_storefront/internal/store"
)

// AuthHandler expose la session d'authentification : login, inscription,
// déconnexion et profil. Le token vit dans le stockage durable, le profil
// est refetché à la demande.
type AuthHandler struct {
	storage storage.Storage
	api     store.AuthAPI
}

func NewAuthHandler(st storage.Storage, api store.AuthAPI) *AuthHandler {
	return &AuthHandler{storage: st, api: api}
}

func (h *AuthHandler) session(c *gin.Context) *store.AuthSession {
	s := store.NewAuthSession(c.GetString("session_id"), h.api, h.storage)
	s.Load(c.Request.Context())
	return s
}

//
// 🟢 POST /api/auth/login
//
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	s := h.session(c)
	if err := s.Login(c.Request.Context(), input.Username, input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants incorrects"})
		return
	}

	// Le profil peut être nil si son fetch post-login a échoué : le login
	// reste un succès, le profil viendra au prochain chargement.
	c.JSON(http.StatusOK, gin.H{
		"message": "Connexion réussie",
		"profile": s.Profile(),
	})
}

//
// 🟢 POST /api/auth/register
//
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterData
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	s := h.session(c)
	if err := s.Register(c.Request.Context(), input); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Échec de l'inscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Compte créé, connectez-vous"})
}

//
// ❌ POST /api/auth/logout
//
func (h *AuthHandler) Logout(c *gin.Context) {
	s := h.session(c)
	s.Logout(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}

//
// 🟢 GET /api/auth/profile
//
func (h *AuthHandler) GetProfile(c *gin.Context) {
	s := h.session(c)
	if s.Token() == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	if err := s.FetchProfile(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur récupération profil"})
		return
	}

	c.JSON(http.StatusOK, s.Profile())
}
