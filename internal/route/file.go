package route

import (
	"github.com/SeakMengs/ProjectHub/internal/controller"
	"github.com/SeakMengs/ProjectHub/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Files(r *gin.RouterGroup, fc *controller.FileController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/files")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.POST("", fc.UploadDocument)
		v1.POST("/thumbnail", fc.UploadThumbnail)
	}
}
