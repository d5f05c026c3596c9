package repository

import (
	"context"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"gorm.io/gorm"
)

type PendingDeletionRepository struct {
	*baseRepository
}

// Record stores blobs that could not be deleted. A handle already recorded
// has its attempt count increased.
func (pr PendingDeletionRepository) Record(ctx context.Context, tx *gorm.DB, failures []errs.CleanupFailure) error {
	if len(failures) == 0 {
		return nil
	}
	pr.logger.Debugf("Record %d pending blob deletion(s) \n", len(failures))

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	err := pr.withTx(db.WithContext(ctx), func(tx *gorm.DB) error {
		for _, f := range failures {
			var existing model.PendingBlobDeletion
			err := tx.Where("handle = ?", f.Handle).First(&existing).Error
			switch {
			case err == nil:
				if err := tx.Model(&existing).Updates(map[string]any{
					"reason":   f.Reason,
					"attempts": gorm.Expr("attempts + 1"),
				}).Error; err != nil {
					return err
				}
			case errs.IsNotFound(err):
				if err := tx.Create(&model.PendingBlobDeletion{Handle: f.Handle, Reason: f.Reason, Attempts: 1}).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})

	return persistenceError("record pending deletion", err)
}

func (pr PendingDeletionRepository) List(ctx context.Context, tx *gorm.DB, limit int) ([]model.PendingBlobDeletion, error) {
	pr.logger.Debugf("List pending blob deletions, limit: %d \n", limit)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	rows := []model.PendingBlobDeletion{}
	query := db.WithContext(ctx).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, persistenceError("list pending deletion", err)
	}
	return rows, nil
}
