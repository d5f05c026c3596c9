package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/ingest"
	"github.com/SeakMengs/ProjectHub/internal/repository"
	"github.com/SeakMengs/ProjectHub/internal/service"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
)

type ProjectController struct {
	*baseController
}

const (
	ErrProjectIdRequired = "project ID is required"
	ErrProjectNotFound   = "project not found"
)

func searchResponse(result repository.SearchResult) gin.H {
	return gin.H{
		"projects": result.Projects,
		"pagination": gin.H{
			"total":   result.Total,
			"pages":   result.PageCount,
			"current": result.Page,
			"limit":   result.Limit,
		},
	}
}

func (pc ProjectController) projectID(ctx *gin.Context) (string, bool) {
	projectId := strings.TrimSpace(ctx.Params.ByName("projectId"))
	if projectId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Project id is required", util.GenerateErrorMessages(errors.New(ErrProjectIdRequired), "projectId"), nil)
		return "", false
	}
	return projectId, true
}

// Search lists published projects matching the query string. status=draft
// lists the caller's own drafts and requires a signed in user.
func (pc ProjectController) Search(ctx *gin.Context) {
	var filter repository.SearchFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid query", util.GenerateErrorMessages(err), nil)
		return
	}

	if filter.Status == constant.ProjectStatusDraft {
		user := pc.getOptionalAuthUser(ctx)
		if user == nil {
			pc.respondError(ctx, "Sign in to list drafts", fmt.Errorf("%w: drafts are private", errs.ErrUnauthorized), nil)
			return
		}
		filter.AuthorID = user.ID
	}

	result, err := pc.app.Repository.Project.Search(ctx, nil, filter)
	if err != nil {
		pc.respondError(ctx, "Failed to search projects", err, nil)
		return
	}

	util.ResponseSuccess(ctx, searchResponse(result))
}

func (pc ProjectController) GetProjectById(ctx *gin.Context) {
	projectId, ok := pc.projectID(ctx)
	if !ok {
		return
	}

	project, err := pc.app.Repository.Project.GetByID(ctx, nil, projectId)
	if err != nil {
		pc.respondError(ctx, "Failed to get project", err, nil)
		return
	}

	if project.Status != constant.ProjectStatusPublished {
		user := pc.getOptionalAuthUser(ctx)
		if user == nil || !project.IsOwnedBy(user.ID) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New(ErrProjectNotFound), "project"), nil)
			return
		}
	}

	util.ResponseSuccess(ctx, gin.H{
		"project": project,
	})
}

func (pc ProjectController) CreateProject(ctx *gin.Context) {
	type Request struct {
		Title        string `form:"title" binding:"required,strNotEmpty,cmax=150"`
		Description  string `form:"description" binding:"required,strNotEmpty"`
		Category     string `form:"category" binding:"required,strNotEmpty,cmax=100"`
		Year         string `form:"year"`
		Status       string `form:"status" binding:"omitempty,oneof=draft published"`
		ThumbnailURL string `form:"thumbnailUrl" binding:"omitempty,url"`
	}
	var body Request

	user, err := pc.getAuthUser(ctx)
	if err != nil {
		pc.respondError(ctx, "Unauthorized", err, nil)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid multipart form", util.GenerateErrorMessages(err, "files"), nil)
		return
	}

	in := service.CreateProjectInput{
		AuthorID:    user.ID,
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Status:      constant.ProjectStatus(body.Status),
		Files:       uploadsFromForm(form, "files"),
	}

	if values, ok := formValues(ctx, "tags"); ok {
		in.Tags = parseTags(values)
	}
	if body.Year != "" {
		if in.Year, err = parseYear(body.Year); err != nil {
			pc.respondError(ctx, "Invalid year", err, nil)
			return
		}
	}
	if body.ThumbnailURL != "" {
		in.Thumbnail = &body.ThumbnailURL
	}
	if thumbnails := formFiles(form, "thumbnail"); len(thumbnails) > 0 {
		thumbnail := ingest.FromFileHeader(thumbnails[0])
		in.ThumbnailFile = &thumbnail
	}

	project, err := pc.app.ProjectService.Create(ctx.Request.Context(), in)
	if err != nil {
		pc.respondError(ctx, "Failed to create project", err, nil)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"project": project,
	})
}

// UpdateProject accepts multipart (with new files) or JSON.
func (pc ProjectController) UpdateProject(ctx *gin.Context) {
	projectId, ok := pc.projectID(ctx)
	if !ok {
		return
	}

	user, err := pc.getAuthUser(ctx)
	if err != nil {
		pc.respondError(ctx, "Unauthorized", err, nil)
		return
	}

	in := service.UpdateProjectInput{
		ProjectID: projectId,
		UserID:    user.ID,
	}

	if strings.HasPrefix(ctx.ContentType(), gin.MIMEMultipartPOSTForm) {
		form, err := ctx.MultipartForm()
		if err != nil {
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid multipart form", util.GenerateErrorMessages(err, "files"), nil)
			return
		}

		if in.Patch, in.RemoveFileIDs, err = patchFromForm(ctx); err != nil {
			pc.respondError(ctx, "Invalid request", err, nil)
			return
		}
		in.NewFiles = uploadsFromForm(form, "files")
	} else {
		var body updateProjectJSON
		if err := ctx.ShouldBindJSON(&body); err != nil {
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
			return
		}
		in.Patch = body.patch()
		in.RemoveFileIDs = body.RemoveFileIDs
	}

	project, report, err := pc.app.ProjectService.Update(ctx.Request.Context(), in)
	if err != nil {
		pc.respondError(ctx, "Failed to update project", err, nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"project":  project,
		"warnings": warnings(report),
	})
}

func (pc ProjectController) DeleteProject(ctx *gin.Context) {
	projectId, ok := pc.projectID(ctx)
	if !ok {
		return
	}

	user, err := pc.getAuthUser(ctx)
	if err != nil {
		pc.respondError(ctx, "Unauthorized", err, nil)
		return
	}

	report, err := pc.app.ProjectService.Delete(ctx.Request.Context(), projectId, user.ID)
	if err != nil {
		if errors.Is(err, errs.ErrForbidden) {
			err = fmt.Errorf("%w: only the author can delete this project", errs.ErrForbidden)
		}
		pc.respondError(ctx, "Failed to delete project", err, nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"warnings": warnings(report),
	})
}

func warnings(report service.CleanupReport) []errs.CleanupFailure {
	if report.Warnings == nil {
		return []errs.CleanupFailure{}
	}
	return report.Warnings
}
