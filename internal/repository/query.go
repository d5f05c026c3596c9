package repository

import (
	"strings"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"gorm.io/gorm"
)

// SearchFilter holds the catalog search criteria. All set criteria are ANDed.
type SearchFilter struct {
	Query    string                 `form:"query"`
	Category string                 `form:"category"`
	Tags     []string               `form:"tags"`
	Status   constant.ProjectStatus `form:"status"`
	Page     int                    `form:"page"`
	Limit    int                    `form:"limit"`

	// AuthorID restricts results to one author.
	AuthorID string `form:"-"`
	// AnyStatus disables the status criterion when Status is empty.
	AnyStatus bool `form:"-"`
}

type SearchResult struct {
	Projects  []model.Project `json:"projects"`
	Total     int64           `json:"total"`
	PageCount int             `json:"pages"`
	Page      int             `json:"current"`
	Limit     int             `json:"limit"`
}

// Normalize applies defaults: page 1, limit 10 capped at 100, status published.
func (f SearchFilter) Normalize() SearchFilter {
	f.Query = strings.TrimSpace(f.Query)
	f.Category = strings.TrimSpace(f.Category)

	tags := make([]string, 0, len(f.Tags))
	for _, raw := range f.Tags {
		// tags=AI,ML and tags=AI&tags=ML are equivalent
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	f.Tags = tags

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = constant.DefaultPageSize
	}
	if f.Limit > constant.MaxPageSize {
		f.Limit = constant.MaxPageSize
	}
	if f.Status == "" && !f.AnyStatus {
		f.Status = constant.ProjectStatusPublished
	}

	return f
}

// Scope composes the filter predicates. It does not paginate or order.
func (f SearchFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Query != "" {
			like := "%" + escapeLike(strings.ToLower(f.Query)) + "%"
			db = db.Where("(LOWER(projects.title) LIKE ? ESCAPE '\\' OR LOWER(projects.description) LIKE ? ESCAPE '\\')", like, like)
		}

		if f.Category != "" {
			db = db.Where("projects.category = ?", f.Category)
		}

		for _, tag := range f.Tags {
			db = db.Where("EXISTS (SELECT 1 FROM project_tags WHERE project_tags.project_id = projects.id AND project_tags.name = ?)", tag)
		}

		if f.Status != "" {
			db = db.Where("projects.status = ?", f.Status)
		}

		if f.AuthorID != "" {
			db = db.Where("projects.author_id = ?", f.AuthorID)
		}

		return db
	}
}

func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(util.ToOffset(uint(page), uint(limit))).Limit(limit)
	}
}

// Newest first, id breaks ties so paging is stable.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("projects.created_at DESC").Order("projects.id DESC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
