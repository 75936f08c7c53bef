package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie identifie le profil navigateur, comme le localStorage
	// identifie le navigateur dans le frontend d'origine.
	SessionCookie = "storefront_session"

	sessionMaxAge = 30 * 24 * 3600
)

// SessionID attribue (ou relit) l'identifiant de session navigateur.
// C'est la clé sous laquelle le panier et le token sont persistés.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(SessionCookie, sid, sessionMaxAge, "/", "", false, true)
		}
		c.Set("session_id", sid)
		c.Next()
	}
}
