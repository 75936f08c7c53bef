package store

import (
	"context"
	"log"
	"time"

	"pharmacy_storefront/internal/models"
	"pharmacy_storefront/internal/storage"
)

// Le token survit aux rechargements de page aussi longtemps que le panier.
const tokenTTL = 30 * 24 * time.Hour

// AuthAPI est la partie du client distant dont la session a besoin.
type AuthAPI interface {
	// Token échange les identifiants contre un bearer token (grant password).
	Token(ctx context.Context, username, password string) (string, error)
	// LegacyLogin établit la session cookie côté service legacy (best effort).
	LegacyLogin(ctx context.Context, token string) error
	// Profile récupère le profil de l'utilisateur porteur du token.
	Profile(ctx context.Context, token string) (*models.Profile, error)
	// Register crée un compte. Ne connecte pas automatiquement.
	Register(ctx context.Context, data models.RegisterData) error
}

// AuthSession détient le bearer token courant et le profil mis en cache.
// Le token est la pièce durable (persisté), le profil n'est qu'un cache
// refetché à chaque chargement.
type AuthSession struct {
	key     string
	token   string
	profile *models.Profile
	loading bool

	api     AuthAPI
	storage storage.Storage
}

// NewAuthSession construit la session de l'identifiant navigateur donné.
func NewAuthSession(sessionID string, api AuthAPI, st storage.Storage) *AuthSession {
	return &AuthSession{
		key:     "token:" + sessionID,
		api:     api,
		storage: st,
	}
}

// Load restaure le token depuis le stockage durable. Le profil, lui,
// doit être refetché explicitement (FetchProfile).
func (s *AuthSession) Load(ctx context.Context) {
	token, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.token = ""
		return
	}
	s.token = token
}

// Token retourne le bearer token courant ("" si déconnecté).
func (s *AuthSession) Token() string { return s.token }

// Profile retourne le profil en cache (nil tant que non fetché).
func (s *AuthSession) Profile() *models.Profile { return s.profile }

// IsLoading indique qu'une opération réseau est en cours (affichage UI
// uniquement, ce n'est pas un verrou de concurrence).
func (s *AuthSession) IsLoading() bool { return s.loading }

// Login échange les identifiants contre un token. Le succès du login se
// définit uniquement par l'obtention du token : l'appel legacy et le
// fetch du profil qui suivent sont best effort et ne font pas échouer
// l'opération.
func (s *AuthSession) Login(ctx context.Context, username, password string) error {
	s.loading = true
	defer func() { s.loading = false }()

	token, err := s.api.Token(ctx, username, password)
	if err != nil {
		return err
	}

	s.token = token
	if err := s.storage.Set(ctx, s.key, token, tokenTTL); err != nil {
		log.Printf("❌ Erreur sauvegarde token: %v", err)
	}

	// Session cookie côté legacy, best effort
	if err := s.api.LegacyLogin(ctx, token); err != nil {
		log.Printf("⚠️ Login legacy échoué (ignoré): %v", err)
	}

	// Fetch immédiat du profil après login
	if profile, err := s.api.Profile(ctx, token); err != nil {
		log.Printf("⚠️ Échec récupération profil après login: %v", err)
	} else {
		s.profile = profile
	}

	return nil
}

// Register soumet l'inscription au service utilisateur. Pas de login
// automatique derrière : succès = résultat réseau, rien de plus.
func (s *AuthSession) Register(ctx context.Context, data models.RegisterData) error {
	s.loading = true
	defer func() { s.loading = false }()

	return s.api.Register(ctx, data)
}

// Logout efface le token durable et le profil en cache. Ne peut pas échouer.
func (s *AuthSession) Logout(ctx context.Context) {
	if err := s.storage.Del(ctx, s.key); err != nil {
		log.Printf("⚠️ Erreur suppression token (ignorée): %v", err)
	}
	s.token = ""
	s.profile = nil
}

// FetchProfile rafraîchit le profil avec le token courant. En cas d'échec
// le profil précédent reste en place et l'erreur est journalisée.
func (s *AuthSession) FetchProfile(ctx context.Context) error {
	profile, err := s.api.Profile(ctx, s.token)
	if err != nil {
		log.Printf("⚠️ Échec récupération profil: %v", err)
		return err
	}
	s.profile = profile
	return nil
}
