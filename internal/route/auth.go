package route

import (
	"github.com/SeakMengs/ProjectHub/internal/controller"
	"github.com/gin-gonic/gin"
)

func V1_Auth(r *gin.RouterGroup, authController *controller.AuthController) {
	v1 := r.Group("/v1/auth")
	{
		v1.POST("/signup", authController.Signup)
		v1.POST("/login", authController.Login)
		v1.POST("/logout", authController.Logout)
		v1.POST("/jwt/access/verify/:token", authController.VerifyJwtAccessToken)
	}
}
