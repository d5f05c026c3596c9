package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	*baseRepository
}

// ProjectPatch is a partial update. Nil fields are left untouched.
// A Thumbnail pointing at an empty string clears the thumbnail.
type ProjectPatch struct {
	Title       *string
	Description *string
	Category    *string
	Tags        *[]string
	Year        *int
	Status      *constant.ProjectStatus
	Thumbnail   *string
}

// ApplyTo sets the patched fields on an in-memory project the way Update stores them.
func (p ProjectPatch) ApplyTo(project *model.Project) {
	if p.Title != nil {
		project.Title = *p.Title
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
	if p.Category != nil {
		project.Category = *p.Category
	}
	if p.Year != nil {
		project.Year = *p.Year
	}
	if p.Status != nil {
		project.Status = *p.Status
	}
	if p.Thumbnail != nil {
		if *p.Thumbnail == "" {
			project.Thumbnail = nil
		} else {
			thumbnail := *p.Thumbnail
			project.Thumbnail = &thumbnail
		}
	}
	if p.Tags != nil {
		project.TagRows = model.TagRowsFrom(*p.Tags)
		project.TagsFromRows()
	}
}

func (p ProjectPatch) columns() map[string]any {
	updates := map[string]any{}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Category != nil {
		updates["category"] = *p.Category
	}
	if p.Year != nil {
		updates["year"] = *p.Year
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.Thumbnail != nil {
		if *p.Thumbnail == "" {
			updates["thumbnail"] = gorm.Expr("NULL")
		} else {
			updates["thumbnail"] = *p.Thumbnail
		}
	}
	return updates
}

func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", errs.ErrPersistence, op, err)
}

func reloadError(id string, err error) error {
	return fmt.Errorf("%w: project %s: %v", errs.ErrReloadFailed, id, err)
}

// Create inserts the project with its tags and file rows in one transaction.
// When the committed project cannot be read back, it returns the project as
// written together with an error matching errs.ErrReloadFailed.
func (pr ProjectRepository) Create(ctx context.Context, tx *gorm.DB, project *model.Project, files []model.ProjectFile) (*model.Project, error) {
	pr.logger.Debugf("Create project %q with %d file(s) \n", project.Title, len(files))

	db := pr.getDB(tx)
	writeCtx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	err := pr.withTx(db.WithContext(writeCtx), func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}

		if err := pr.replaceTags(tx, project.ID, project.Tags); err != nil {
			return err
		}

		return pr.insertFiles(tx, project.ID, files)
	})
	if err != nil {
		return nil, persistenceError("create project", err)
	}

	created, err := pr.GetByID(ctx, tx, project.ID)
	if err != nil {
		pr.logger.Warnf("Project %s was created but could not be reloaded: %v", project.ID, err)
		project.Files = files
		project.TagRows = model.TagRowsFrom(project.Tags)
		project.TagsFromRows()
		return project, reloadError(project.ID, err)
	}
	return created, nil
}

// Update applies the patch, appends newFiles and removes the files of the
// project named by removeFileIDs, in one transaction. A failed read after the
// commit returns a nil project and an error matching errs.ErrReloadFailed.
func (pr ProjectRepository) Update(ctx context.Context, tx *gorm.DB, id string, patch ProjectPatch, newFiles []model.ProjectFile, removeFileIDs []string) (*model.Project, error) {
	pr.logger.Debugf("Update project %s: add %d file(s), remove %d file(s) \n", id, len(newFiles), len(removeFileIDs))

	db := pr.getDB(tx)
	writeCtx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	err := pr.withTx(db.WithContext(writeCtx), func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Select("id").Where("id = ?", id).First(&project).Error; err != nil {
			if errs.IsNotFound(err) {
				return fmt.Errorf("%w: project %s", errs.ErrNotFound, id)
			}
			return err
		}

		updates := patch.columns()
		if len(updates) > 0 || patch.Tags != nil || len(newFiles) > 0 || len(removeFileIDs) > 0 {
			updates["updated_at"] = gorm.Expr("CURRENT_TIMESTAMP")
			if err := tx.Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if patch.Tags != nil {
			if err := pr.replaceTags(tx, id, *patch.Tags); err != nil {
				return err
			}
		}

		if len(removeFileIDs) > 0 {
			if err := tx.Where("project_id = ? AND id IN ?", id, removeFileIDs).Delete(&model.ProjectFile{}).Error; err != nil {
				return err
			}
		}

		return pr.insertFiles(tx, id, newFiles)
	})
	if err != nil {
		return nil, persistenceError("update project", err)
	}

	updated, err := pr.GetByID(ctx, tx, id)
	if err != nil {
		pr.logger.Warnf("Project %s was updated but could not be reloaded: %v", id, err)
		return nil, reloadError(id, err)
	}
	return updated, nil
}

// Delete removes the project with its files, tags, likes and comments.
func (pr ProjectRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	pr.logger.Debugf("Delete project %s \n", id)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	err := pr.withTx(db.WithContext(ctx), func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: project %s", errs.ErrNotFound, id)
		}

		// Cascade explicitly so engines without enforced foreign keys stay clean.
		for _, child := range []any{&model.ProjectFile{}, &model.ProjectTag{}, &model.Like{}, &model.Comment{}} {
			if err := tx.Where("project_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return nil
	})

	return persistenceError("delete project", err)
}

// GetByID returns the project with author, files, tags and engagement counts.
func (pr ProjectRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*model.Project, error) {
	pr.logger.Debugf("Get project by id: %s \n", id)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var project model.Project
	if err := db.WithContext(ctx).Scopes(withDetails).Where("projects.id = ?", id).First(&project).Error; err != nil {
		if errs.IsNotFound(err) {
			return nil, fmt.Errorf("%w: project %s", errs.ErrNotFound, id)
		}
		return nil, persistenceError("get project", err)
	}

	projects := []model.Project{project}
	if err := pr.hydrate(ctx, db, projects); err != nil {
		return nil, persistenceError("get project", err)
	}

	return &projects[0], nil
}

// GetFilesByIDs returns the files among ids that belong to the project.
func (pr ProjectRepository) GetFilesByIDs(ctx context.Context, tx *gorm.DB, projectID string, ids []string) ([]model.ProjectFile, error) {
	pr.logger.Debugf("Get files %v of project %s \n", ids, projectID)

	files := []model.ProjectFile{}
	if len(ids) == 0 {
		return files, nil
	}

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Where("project_id = ? AND id IN ?", projectID, ids).Order("created_at ASC").Find(&files).Error; err != nil {
		return nil, persistenceError("get project files", err)
	}

	return files, nil
}

func (pr ProjectRepository) Search(ctx context.Context, tx *gorm.DB, filter SearchFilter) (SearchResult, error) {
	filter = filter.Normalize()
	pr.logger.Debugf("Search projects with filter: %+v \n", filter)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := SearchResult{Projects: []model.Project{}, Page: filter.Page, Limit: filter.Limit}

	if err := db.WithContext(ctx).Model(&model.Project{}).Scopes(filter.Scope()).Count(&result.Total).Error; err != nil {
		return result, persistenceError("count projects", err)
	}
	result.PageCount = util.CalculateTotalPage(result.Total, uint(filter.Limit))

	if result.Total == 0 {
		return result, nil
	}

	if err := db.WithContext(ctx).
		Scopes(filter.Scope(), withDetails, newestFirst, paginate(filter.Page, filter.Limit)).
		Find(&result.Projects).Error; err != nil {
		return result, persistenceError("search projects", err)
	}

	if err := pr.hydrate(ctx, db, result.Projects); err != nil {
		return result, persistenceError("search projects", err)
	}

	return result, nil
}

// ListByAuthor lists every project of the author, drafts included unless a status is given.
func (pr ProjectRepository) ListByAuthor(ctx context.Context, tx *gorm.DB, authorID string, filter SearchFilter) (SearchResult, error) {
	pr.logger.Debugf("List projects of author: %s \n", authorID)

	filter.AuthorID = authorID
	filter.AnyStatus = true
	return pr.Search(ctx, tx, filter)
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Project{}).
		Preload("Author").
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_files.created_at ASC")
		}).
		Preload("TagRows", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_tags.position ASC")
		})
}

type projectCount struct {
	ProjectID string
	Total     int64
}

// hydrate fills tags and like/comment counts in place.
func (pr ProjectRepository) hydrate(ctx context.Context, db *gorm.DB, projects []model.Project) error {
	if len(projects) == 0 {
		return nil
	}

	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
		projects[i].TagsFromRows()
	}

	likes, err := countByProject(ctx, db, &model.Like{}, ids)
	if err != nil {
		return err
	}
	comments, err := countByProject(ctx, db, &model.Comment{}, ids)
	if err != nil {
		return err
	}

	for i := range projects {
		projects[i].LikeCount = likes[projects[i].ID]
		projects[i].CommentCount = comments[projects[i].ID]
	}
	return nil
}

func countByProject(ctx context.Context, db *gorm.DB, m any, ids []string) (map[string]int64, error) {
	var rows []projectCount
	if err := db.WithContext(ctx).Model(m).
		Select("project_id, COUNT(*) AS total").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ProjectID] = row.Total
	}
	return counts, nil
}

func (pr ProjectRepository) replaceTags(tx *gorm.DB, projectID string, tags []string) error {
	if err := tx.Where("project_id = ?", projectID).Delete(&model.ProjectTag{}).Error; err != nil {
		return err
	}

	rows := model.TagRowsFrom(tags)
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ProjectID = projectID
	}
	return tx.Create(&rows).Error
}

// insertFiles sets ProjectID and ID on files in place.
func (pr ProjectRepository) insertFiles(tx *gorm.DB, projectID string, files []model.ProjectFile) error {
	if len(files) == 0 {
		return nil
	}

	for i := range files {
		if strings.TrimSpace(files[i].Handle) == "" {
			return fmt.Errorf("file %s has no store handle", files[i].Name)
		}
		files[i].ProjectID = projectID
	}
	return tx.Create(&files).Error
}
