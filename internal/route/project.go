package route

import (
	"github.com/SeakMengs/ProjectHub/internal/controller"
	"github.com/SeakMengs/ProjectHub/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Projects(r *gin.RouterGroup, pc *controller.ProjectController, ec *controller.EngagementController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/projects")
	{
		v1.GET("", middleware.OptionalAuthMiddleware, pc.Search)
		v1.GET("/:projectId", middleware.OptionalAuthMiddleware, pc.GetProjectById)
		v1.GET("/:projectId/comments", ec.ListComments)
	}

	auth := r.Group("/v1/projects")
	auth.Use(middleware.AuthMiddleware)
	{
		auth.POST("", pc.CreateProject)
		auth.PATCH("/:projectId", pc.UpdateProject)
		auth.DELETE("/:projectId", pc.DeleteProject)
		auth.POST("/:projectId/like", ec.Like)
		auth.DELETE("/:projectId/like", ec.Unlike)
		auth.POST("/:projectId/comments", ec.AddComment)
	}
}
