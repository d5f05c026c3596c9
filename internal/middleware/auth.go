package middleware

import (
	"net/http"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware accepts a Bearer token or the auth cookie.
func (m Middleware) AuthMiddleware(ctx *gin.Context) {
	token, err := util.ReadAuthToken(ctx, m.app.Config.Auth.CookieName)
	if err != nil {
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err, "unauthorized"), nil)
		ctx.Abort()
		return
	}

	claim, err := m.app.JWTService.VerifyToken(token)
	if err != nil {
		m.app.Logger.Debugf("Failed to verify token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid token", util.GenerateErrorMessages(err, "unauthorized"), nil)
		ctx.Abort()
		return
	}

	ctx.Set(constant.AUTH_USER_CONTEXT_KEY, claim.User)
	ctx.Next()
}

// OptionalAuthMiddleware sets the user when a valid token is present and never rejects.
func (m Middleware) OptionalAuthMiddleware(ctx *gin.Context) {
	token, err := util.ReadAuthToken(ctx, m.app.Config.Auth.CookieName)
	if err == nil {
		if claim, err := m.app.JWTService.VerifyToken(token); err == nil {
			ctx.Set(constant.AUTH_USER_CONTEXT_KEY, claim.User)
		}
	}

	ctx.Next()
}
