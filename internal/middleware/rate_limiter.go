package middleware

import (
	"fmt"
	"math"
	"net/http"

	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) RateLimiterMiddleware(ctx *gin.Context) {
	if m.rateLimiter == nil {
		ctx.Next()
		return
	}

	ip := ctx.ClientIP()
	if ip == "" {
		ip = ctx.RemoteIP()
	}

	if allow, retryAfter := m.rateLimiter.Allow(ip); !allow {
		ctx.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retryAfter.Seconds()))))
		util.ResponseFailed(ctx, http.StatusTooManyRequests, "Rate limit exceeded", util.GenerateErrorMessages(fmt.Errorf("retry after %s", retryAfter), "rateLimit"), nil)
		ctx.Abort()
		return
	}

	ctx.Next()
}
