package controller

import (
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/ingest"
	"github.com/SeakMengs/ProjectHub/internal/repository"
	"github.com/gin-gonic/gin"
)

// TagList accepts a JSON array or a comma separated string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = TagList(parseTags(list))
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errs.NewValidationError("tags", errs.ConstraintType, "tags must be an array or a comma separated string")
	}
	*t = TagList(parseTags([]string{raw}))
	return nil
}

// parseTags flattens form values where each value is a JSON array or a comma list.
func parseTags(values []string) []string {
	tags := []string{}
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if strings.HasPrefix(value, "[") {
			var list []string
			if err := json.Unmarshal([]byte(value), &list); err == nil {
				for _, tag := range list {
					if tag = strings.TrimSpace(tag); tag != "" {
						tags = append(tags, tag)
					}
				}
				continue
			}
		}

		for _, tag := range strings.Split(value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func parseYear(value string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || year < 1900 || year > 9999 {
		return 0, errs.NewValidationError("year", errs.ConstraintType, "year must be a four digit number")
	}
	return year, nil
}

// formFiles collects files sent as "files" or "files[]".
func formFiles(form *multipart.Form, key string) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	files := append([]*multipart.FileHeader{}, form.File[key]...)
	return append(files, form.File[key+"[]"]...)
}

func formValues(ctx *gin.Context, key string) ([]string, bool) {
	if values, ok := ctx.GetPostFormArray(key); ok {
		return values, true
	}
	return ctx.GetPostFormArray(key + "[]")
}

// updateProjectJSON is the JSON body of a project patch. Absent fields are left untouched.
type updateProjectJSON struct {
	Title         *string                 `json:"title"`
	Description   *string                 `json:"description"`
	Category      *string                 `json:"category"`
	Tags          *TagList                `json:"tags"`
	Year          *int                    `json:"year"`
	Status        *constant.ProjectStatus `json:"status"`
	Thumbnail     *string                 `json:"thumbnail"`
	RemoveFileIDs []string                `json:"removeFileIds"`
}

func (r updateProjectJSON) patch() repository.ProjectPatch {
	p := repository.ProjectPatch{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Year:        r.Year,
		Status:      r.Status,
		Thumbnail:   r.Thumbnail,
	}
	if r.Tags != nil {
		tags := []string(*r.Tags)
		p.Tags = &tags
	}
	return p
}

// patchFromForm reads the fields present in a multipart patch.
func patchFromForm(ctx *gin.Context) (repository.ProjectPatch, []string, error) {
	var p repository.ProjectPatch

	text := func(key string) *string {
		if v, ok := ctx.GetPostForm(key); ok {
			return &v
		}
		return nil
	}

	p.Title = text("title")
	p.Description = text("description")
	p.Category = text("category")
	p.Thumbnail = text("thumbnail")

	if v := text("status"); v != nil {
		status := constant.ProjectStatus(strings.TrimSpace(*v))
		p.Status = &status
	}
	if v := text("year"); v != nil {
		year, err := parseYear(*v)
		if err != nil {
			return p, nil, err
		}
		p.Year = &year
	}
	if values, ok := formValues(ctx, "tags"); ok {
		tags := parseTags(values)
		p.Tags = &tags
	}

	var remove []string
	if values, ok := formValues(ctx, "removeFileIds"); ok {
		remove = parseTags(values)
	}

	return p, remove, nil
}

func uploadsFromForm(form *multipart.Form, key string) []ingest.Upload {
	return ingest.FromFileHeaders(formFiles(form, key))
}
