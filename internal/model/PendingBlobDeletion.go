package model

// PendingBlobDeletion records a blob whose best-effort deletion failed.
type PendingBlobDeletion struct {
	BaseModel
	Handle   string `gorm:"type:text;not null;index" json:"handle"`
	Reason   string `gorm:"type:text;not null" json:"reason"`
	Attempts int    `gorm:"not null;default:1" json:"attempts"`
}

func (p PendingBlobDeletion) TableName() string {
	return "pending_blob_deletions"
}
