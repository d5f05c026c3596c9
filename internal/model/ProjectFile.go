package model

import (
	"strings"
)

type ProjectFile struct {
	BaseModel
	ProjectID string `gorm:"type:text;not null;index" json:"projectId"`
	Name      string `gorm:"type:text;not null" json:"name"`
	MimeType  string `gorm:"type:varchar(255);not null" json:"type"`
	Size      int64  `gorm:"type:bigint;not null" json:"size"`
	URL       string `gorm:"type:text;not null" json:"url"`
	// Handle is the object store key used to delete the blob.
	Handle string `gorm:"type:text;not null;uniqueIndex" json:"handle"`
}

func (f ProjectFile) TableName() string {
	return "project_files"
}

func (f ProjectFile) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.MimeType), "image/")
}

// FirstImageURL returns the url of the first image in input order.
func FirstImageURL(files []ProjectFile) *string {
	for _, f := range files {
		if f.IsImage() {
			url := f.URL
			return &url
		}
	}
	return nil
}

func Handles(files []ProjectFile) []string {
	handles := make([]string, len(files))
	for i, f := range files {
		handles[i] = f.Handle
	}
	return handles
}
