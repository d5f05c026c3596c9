package controller

import (
	"net/http"
	"strconv"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
)

type EngagementController struct {
	*baseController
}

func (ec EngagementController) Like(ctx *gin.Context) {
	ec.toggleLike(ctx, true)
}

func (ec EngagementController) Unlike(ctx *gin.Context) {
	ec.toggleLike(ctx, false)
}

func (ec EngagementController) toggleLike(ctx *gin.Context, like bool) {
	projectId := ctx.Params.ByName("projectId")

	user, err := ec.getAuthUser(ctx)
	if err != nil {
		ec.respondError(ctx, "Unauthorized", err, nil)
		return
	}

	if like {
		err = ec.app.Repository.Engagement.Like(ctx, nil, user.ID, projectId)
	} else {
		err = ec.app.Repository.Engagement.Unlike(ctx, nil, user.ID, projectId)
	}
	if err != nil {
		ec.respondError(ctx, "Failed to update like", err, nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"liked": like,
	})
}

func (ec EngagementController) AddComment(ctx *gin.Context) {
	type Request struct {
		Body string `json:"body" form:"body" binding:"required,strNotEmpty,cmax=2000"`
	}
	var body Request

	user, err := ec.getAuthUser(ctx)
	if err != nil {
		ec.respondError(ctx, "Unauthorized", err, nil)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	comment, err := ec.app.Repository.Engagement.AddComment(ctx, nil, user.ID, ctx.Params.ByName("projectId"), body.Body)
	if err != nil {
		ec.respondError(ctx, "Failed to add comment", err, nil)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"comment": comment,
	})
}

func (ec EngagementController) ListComments(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(constant.DefaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > constant.MaxPageSize {
		pageSize = constant.DefaultPageSize
	}

	comments, total, err := ec.app.Repository.Engagement.ListComments(ctx, nil, ctx.Params.ByName("projectId"), page, pageSize)
	if err != nil {
		ec.respondError(ctx, "Failed to list comments", err, nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"comments": comments,
		"pagination": gin.H{
			"total":   total,
			"pages":   util.CalculateTotalPage(total, uint(pageSize)),
			"current": page,
			"limit":   pageSize,
		},
	})
}
