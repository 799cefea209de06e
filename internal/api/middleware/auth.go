package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/troopledger/troop-api/internal/pkg/jwthelper"
)

// ContextKeyUserID is where VerifyJWT stores the authenticated user's ID.
const ContextKeyUserID = "user_id"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// Reject a token replayed from a different client.
		if claims.UserAgent != ctx.Request.UserAgent() {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}
