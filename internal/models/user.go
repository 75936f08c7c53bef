package models

// Profile est le profil utilisateur renvoyé par GET /v1/profile.
// Mis en cache côté session, jamais persisté (refetch à chaque chargement).
type Profile struct {
	Username       string  `json:"username"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Location       *string `json:"location,omitempty"`
	Picture        *string `json:"profile,omitempty"`
	AccountBalance float64 `json:"account_balance"`
	IsStaff        bool    `json:"is_staff"`
}

// TokenAuth est la réponse du endpoint de token (grant password).
type TokenAuth struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// RegisterData regroupe les champs d'inscription envoyés en multipart
// au service utilisateur legacy.
type RegisterData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location"`
}
