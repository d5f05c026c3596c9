package model

type Like struct {
	BaseModel
	UserID    string `gorm:"type:text;not null;uniqueIndex:idx_like_user_project" json:"userId"`
	ProjectID string `gorm:"type:text;not null;uniqueIndex:idx_like_user_project;index" json:"projectId"`
}

func (l Like) TableName() string {
	return "likes"
}

type Comment struct {
	BaseModel
	UserID    string `gorm:"type:text;not null" json:"userId"`
	ProjectID string `gorm:"type:text;not null;index" json:"projectId"`
	Body      string `gorm:"type:text;not null" json:"body"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user"`
}

func (c Comment) TableName() string {
	return "comments"
}
