package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"stageflow/internal/api/middleware"
	"stageflow/pkg/response"
)

// MustGetEmail extracts the authenticated caller's email from the context.
// Writes a 401 and returns false if the auth middleware did not run.
// Callers should return immediately when ok is false.
func MustGetEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxEmail)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetAccountID extracts the authenticated caller's account ID.
func MustGetAccountID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxAccountID)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetTokenInfo extracts the access token's ID and expiry.
func MustGetTokenInfo(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(middleware.CtxTokenJTI)
	if jti == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", time.Time{}, false
	}
	exp, ok := c.Get(middleware.CtxTokenExp)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", time.Time{}, false
	}
	t, ok := exp.(time.Time)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", time.Time{}, false
	}
	return jti, t, true
}
