package controller

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/ProjectHub/internal/ingest"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
)

type FileController struct {
	*baseController
}

func (fc FileController) upload(ctx *gin.Context, field string, role ingest.Role) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "No file uploaded", util.GenerateErrorMessages(errors.New(field+" is required"), field), nil)
		return
	}

	file, err := fc.app.ProjectService.UploadSingle(ctx.Request.Context(), ingest.FromFileHeader(fileHeader), role)
	if err != nil {
		fc.respondError(ctx, "Failed to upload file", err, nil)
		return
	}

	if role == ingest.RoleThumbnail {
		util.ResponseCreated(ctx, gin.H{
			"url":    file.URL,
			"handle": file.Handle,
		})
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"url":    file.URL,
		"handle": file.Handle,
		"name":   file.Name,
		"size":   file.Size,
		"type":   file.MimeType,
	})
}

// UploadDocument stores a single pdf, doc or docx.
func (fc FileController) UploadDocument(ctx *gin.Context) {
	fc.upload(ctx, "file", ingest.RoleDocument)
}

// UploadThumbnail stores a single cover image.
func (fc FileController) UploadThumbnail(ctx *gin.Context) {
	fc.upload(ctx, "thumbnail", ingest.RoleThumbnail)
}
