package model

// Tags are a multiset, duplicates are kept and ordered by Position.
type ProjectTag struct {
	BaseModel
	ProjectID string `gorm:"type:text;not null;index:idx_project_tag_project_id" json:"projectId"`
	Name      string `gorm:"type:varchar(100);not null;index:idx_project_tag_name" json:"name"`
	Position  int    `gorm:"not null;default:0" json:"position"`
}

func (pt ProjectTag) TableName() string {
	return "project_tags"
}
