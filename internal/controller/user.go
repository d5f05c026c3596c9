package controller

import (
	"net/http"

	"github.com/SeakMengs/ProjectHub/internal/repository"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	*baseController
}

func (uc UserController) Me(ctx *gin.Context) {
	authUser, err := uc.getAuthUser(ctx)
	if err != nil {
		uc.respondError(ctx, "Unauthorized", err, nil)
		return
	}

	user, err := uc.app.Repository.User.GetById(ctx, nil, authUser.ID)
	if err != nil {
		uc.respondError(ctx, "Failed to get user", err, nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user": toUserResponse(user),
	})
}

// MyProjects lists the caller's projects, drafts included.
func (uc UserController) MyProjects(ctx *gin.Context) {
	authUser, err := uc.getAuthUser(ctx)
	if err != nil {
		uc.respondError(ctx, "Unauthorized", err, nil)
		return
	}

	var filter repository.SearchFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid query", util.GenerateErrorMessages(err), nil)
		return
	}

	result, err := uc.app.Repository.Project.ListByAuthor(ctx, nil, authUser.ID, filter)
	if err != nil {
		uc.respondError(ctx, "Failed to list projects", err, nil)
		return
	}

	util.ResponseSuccess(ctx, searchResponse(result))
}
