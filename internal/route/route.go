package route

import (
	"github.com/SeakMengs/ProjectHub/internal/controller"
	"github.com/SeakMengs/ProjectHub/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Register mounts every versioned route under r.
func Register(r *gin.RouterGroup, c *controller.Controller, m *middleware.Middleware) {
	V1_Auth(r, c.Auth)
	V1_OAuth(r, c.OAuth)
	V1_Me(r, c.User, m)
	V1_Projects(r, c.Project, c.Engagement, m)
	V1_Files(r, c.File, m)
}
