package model

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&OAuthProvider{},
		&Project{},
		&ProjectFile{},
		&ProjectTag{},
		&Like{},
		&Comment{},
		&PendingBlobDeletion{},
	}
}
