package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"gorm.io/gorm"
)

type EngagementRepository struct {
	*baseRepository
}

func (er EngagementRepository) ensureProject(tx *gorm.DB, projectID string) error {
	var count int64
	if err := tx.Model(&model.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: project %s", errs.ErrNotFound, projectID)
	}
	return nil
}

// Like is idempotent, liking twice keeps a single like.
func (er EngagementRepository) Like(ctx context.Context, tx *gorm.DB, userID, projectID string) error {
	er.logger.Debugf("User %s like project %s \n", userID, projectID)

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	err := er.withTx(db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := er.ensureProject(tx, projectID); err != nil {
			return err
		}

		like := model.Like{UserID: userID, ProjectID: projectID}
		return tx.Where(&model.Like{UserID: userID, ProjectID: projectID}).FirstOrCreate(&like).Error
	})

	return persistenceError("like project", err)
}

func (er EngagementRepository) Unlike(ctx context.Context, tx *gorm.DB, userID, projectID string) error {
	er.logger.Debugf("User %s unlike project %s \n", userID, projectID)

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Where("user_id = ? AND project_id = ?", userID, projectID).Delete(&model.Like{}).Error; err != nil {
		return persistenceError("unlike project", err)
	}
	return nil
}

func (er EngagementRepository) AddComment(ctx context.Context, tx *gorm.DB, userID, projectID, body string) (*model.Comment, error) {
	er.logger.Debugf("User %s comment on project %s \n", userID, projectID)

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errs.NewValidationError("body", errs.ConstraintRequired, "comment body is required")
	}

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	comment := model.Comment{UserID: userID, ProjectID: projectID, Body: body}
	err := er.withTx(db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := er.ensureProject(tx, projectID); err != nil {
			return err
		}
		if err := tx.Omit("User").Create(&comment).Error; err != nil {
			return err
		}
		return tx.Preload("User").Where("id = ?", comment.ID).First(&comment).Error
	})
	if err != nil {
		return nil, persistenceError("add comment", err)
	}

	return &comment, nil
}

// ListComments returns the newest comments first.
func (er EngagementRepository) ListComments(ctx context.Context, tx *gorm.DB, projectID string, page, pageSize int) ([]model.Comment, int64, error) {
	er.logger.Debugf("List comments of project %s \n", projectID)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > constant.MaxPageSize {
		pageSize = constant.DefaultPageSize
	}

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var total int64
	if err := db.WithContext(ctx).Model(&model.Comment{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, persistenceError("count comments", err)
	}

	comments := []model.Comment{}
	if err := db.WithContext(ctx).Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(page, pageSize)).
		Find(&comments).Error; err != nil {
		return nil, 0, persistenceError("list comments", err)
	}

	return comments, total, nil
}
