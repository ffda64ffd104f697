package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"stageflow/pkg/jwt"
	"stageflow/pkg/redis"
	"stageflow/pkg/response"
)

// Context keys set by JWTAuth.
const (
	CtxAccountID = "account_id"
	CtxEmail     = "email"
	CtxRole      = "role"
	CtxTokenJTI  = "token_jti"
	CtxTokenExp  = "token_exp"
)

// JWTAuth verifies the bearer access token and injects the caller's
// identity into the context. rdb may be nil; blacklist checks are then
// skipped.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, 10002, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil || claims.TokenType != jwt.TypeAccess {
			response.Unauthorized(c, 10002, "invalid or expired token")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(CtxAccountID, claims.AccountID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenJTI, claims.ID)
		c.Set(CtxTokenExp, claims.ExpiresAt.Time)

		c.Next()
	}
}
