package model

import (
	"strings"

	"github.com/SeakMengs/ProjectHub/internal/constant"
)

type Project struct {
	BaseModel
	Title       string                 `gorm:"type:varchar(150);not null;" json:"title"`
	Description string                 `gorm:"type:text;not null;" json:"description"`
	Category    string                 `gorm:"type:varchar(100);not null;index" json:"category"`
	Year        int                    `gorm:"not null" json:"year"`
	Status      constant.ProjectStatus `gorm:"type:varchar(20);not null;default:'published';index" json:"status"`
	Thumbnail   *string                `gorm:"type:text;default:null" json:"thumbnail"`

	AuthorID string `gorm:"type:text;not null;index" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`

	Files    []ProjectFile `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"files"`
	TagRows  []ProjectTag  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"-"`
	Likes    []Like        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"-"`
	Comments []Comment     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"-"`

	// Filled on read.
	Tags         []string `gorm:"-" json:"tags"`
	LikeCount    int64    `gorm:"-" json:"likeCount"`
	CommentCount int64    `gorm:"-" json:"commentCount"`
}

func (p Project) TableName() string {
	return "projects"
}

func (p Project) IsOwnedBy(userID string) bool {
	return p.AuthorID != "" && p.AuthorID == userID
}

// ThumbnailIsFile reports whether the thumbnail points at one of the given files.
func (p Project) ThumbnailIsFile(files []ProjectFile) bool {
	if p.Thumbnail == nil {
		return false
	}
	for _, f := range files {
		if f.URL == *p.Thumbnail {
			return true
		}
	}
	return false
}

// TagsFromRows restores the ordered tag list from the stored rows.
func (p *Project) TagsFromRows() {
	p.Tags = make([]string, len(p.TagRows))
	for i, row := range p.TagRows {
		p.Tags[i] = row.Name
	}
}

// TagRowsFrom builds tag rows preserving order and duplicates.
func TagRowsFrom(tags []string) []ProjectTag {
	rows := make([]ProjectTag, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		rows = append(rows, ProjectTag{Name: tag, Position: len(rows)})
	}
	return rows
}
