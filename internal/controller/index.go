package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
)

type IndexController struct {
	*baseController
}

// Index reports whether the database answers.
func (ic IndexController) Index(ctx *gin.Context) {
	c, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	sqlDB, err := ic.app.Repository.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c)
	}
	if err != nil {
		ic.app.Logger.Errorf("Health check failed: %v", err)
		util.ResponseFailed(ctx, http.StatusServiceUnavailable, "Database unavailable", util.GenerateErrorMessages(errors.New("database unavailable"), "database"), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"message": "Welcome to the " + util.GetAppName() + " api",
	})
}
