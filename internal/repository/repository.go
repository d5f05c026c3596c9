package repository

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type baseRepository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

type Repository struct {
	// DB can be used for transaction. Example usage:
	// tx := r.DB.Begin()
	// defer tx.Commit()
	// Then pass tx to the repository function. and use tx.Rollback() if error occurred
	DB              *gorm.DB
	User            *UserRepository
	OAuthProvider   *OAuthProviderRepository
	Project         *ProjectRepository
	Engagement      *EngagementRepository
	PendingDeletion *PendingDeletionRepository
}

func newBaseRepository(db *gorm.DB, logger *zap.SugaredLogger) *baseRepository {
	return &baseRepository{db: db, logger: logger}
}

func NewRepository(db *gorm.DB, logger *zap.SugaredLogger) *Repository {
	br := newBaseRepository(db, logger)
	_userRepo := &UserRepository{baseRepository: br}

	return &Repository{
		DB:              db,
		User:            _userRepo,
		OAuthProvider:   &OAuthProviderRepository{baseRepository: br, user: _userRepo},
		Project:         &ProjectRepository{baseRepository: br},
		Engagement:      &EngagementRepository{baseRepository: br},
		PendingDeletion: &PendingDeletionRepository{baseRepository: br},
	}
}

// Example usage can be found in user repository: CheckDupAndCreate
// Note: GORM perform write (create/update/delete) operations run inside a transaction to ensure data consistency | So this function is helpful only if we disable auto transaction
// Docs: https://gorm.io/docs/transactions.html#Disable-Default-Transaction
func (b baseRepository) withTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		b.logger.Debugf("withTx Transaction error: %v", err)
	}

	return err
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return b.db
}
