package model

type User struct {
	BaseModel
	Email string `gorm:"unique;not null;type:citext" json:"email"`
	Name  string `gorm:"type:varchar(100);not null;default:''" json:"name"`
	// Password is a bcrypt hash, nil for users that only sign in through an OAuth provider.
	Password   *string `gorm:"type:text;default:null" json:"-"`
	ProfileURL string  `gorm:"type:text;default:null" json:"profileURL"`
}

func (u User) TableName() string {
	return "users"
}

func (u User) HasLocalPassword() bool {
	return u.Password != nil && *u.Password != ""
}
