package model

type OAuthProvider struct {
	BaseModel
	ProviderType   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_oauth_provider_user" json:"providerType"`
	ProviderUserId string `gorm:"not null;type:text;uniqueIndex:idx_oauth_provider_user" json:"providerUserId"`
	AccessToken    string `gorm:"type:text;default:null" json:"-"`
	RefreshToken   string `gorm:"type:text;default:null" json:"-"`
	UserID         string `gorm:"type:text;not null" json:"userId"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}

func (op OAuthProvider) TableName() string {
	return "oauth_providers"
}
