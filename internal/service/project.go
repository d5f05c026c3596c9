package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	filestorage "github.com/SeakMengs/ProjectHub/internal/file_storage"
	"github.com/SeakMengs/ProjectHub/internal/ingest"
	"github.com/SeakMengs/ProjectHub/internal/metrics"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"github.com/SeakMengs/ProjectHub/internal/repository"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ProjectStore is the part of the project repository the service writes through.
type ProjectStore interface {
	Create(ctx context.Context, tx *gorm.DB, project *model.Project, files []model.ProjectFile) (*model.Project, error)
	Update(ctx context.Context, tx *gorm.DB, id string, patch repository.ProjectPatch, newFiles []model.ProjectFile, removeFileIDs []string) (*model.Project, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*model.Project, error)
	GetFilesByIDs(ctx context.Context, tx *gorm.DB, projectID string, ids []string) ([]model.ProjectFile, error)
}

type PendingDeletionRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, failures []errs.CleanupFailure) error
}

// ProjectService coordinates project writes across the object store and the
// database. Uploaded blobs are deleted again whenever the write fails.
type ProjectService struct {
	projects      ProjectStore
	pending       PendingDeletionRecorder
	store         filestorage.ObjectStore
	validator     *ingest.Validator
	metrics       *metrics.Metrics
	logger        *zap.SugaredLogger
	folder        string
	uploadTimeout time.Duration
	now           func() time.Time
}

func NewProjectService(projects ProjectStore, pending PendingDeletionRecorder, store filestorage.ObjectStore, validator *ingest.Validator, cfg config.Config, m *metrics.Metrics, logger *zap.SugaredLogger) *ProjectService {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}

	folder := cfg.Minio.FOLDER
	if folder == "" {
		folder = constant.FolderProjects
	}

	timeout := cfg.Upload.UploadTimeout
	if timeout <= 0 {
		timeout = config.DefaultUploadConfig().UploadTimeout
	}

	return &ProjectService{
		projects:      projects,
		pending:       pending,
		store:         store,
		validator:     validator,
		metrics:       m,
		logger:        logger,
		folder:        folder,
		uploadTimeout: timeout,
		now:           time.Now,
	}
}

type CreateProjectInput struct {
	AuthorID    string
	Title       string
	Description string
	Category    string
	Tags        []string
	Year        int
	Status      constant.ProjectStatus
	// Thumbnail is an already stored image url. It wins over the derived one.
	Thumbnail *string
	// ThumbnailFile is uploaded with the files and becomes the thumbnail.
	ThumbnailFile *ingest.Upload
	Files         []ingest.Upload
}

type UpdateProjectInput struct {
	ProjectID     string
	UserID        string
	Patch         repository.ProjectPatch
	NewFiles      []ingest.Upload
	RemoveFileIDs []string
}

// CleanupReport lists blobs that could not be deleted. They are recorded as
// pending deletions.
type CleanupReport struct {
	Warnings []errs.CleanupFailure `json:"warnings"`
}

func (r CleanupReport) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (in *CreateProjectInput) normalize(now time.Time) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	switch {
	case in.AuthorID == "":
		return errs.ErrUnauthorized
	case in.Title == "":
		return errs.NewValidationError("title", errs.ConstraintRequired, "title is required")
	case in.Description == "":
		return errs.NewValidationError("description", errs.ConstraintRequired, "description is required")
	case in.Category == "":
		return errs.NewValidationError("category", errs.ConstraintRequired, "category is required")
	case len(in.Files) == 0:
		return errs.NewValidationError("files", errs.ConstraintRequired, "at least one file is required")
	}

	if in.Status == "" {
		in.Status = constant.ProjectStatusPublished
	}
	if !in.Status.IsValid() {
		return errs.NewValidationError("status", errs.ConstraintType, "status must be draft or published")
	}
	if in.Year == 0 {
		in.Year = now.Year()
	}
	if in.Thumbnail != nil && strings.TrimSpace(*in.Thumbnail) == "" {
		in.Thumbnail = nil
	}

	return nil
}

func validatePatch(p repository.ProjectPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return errs.NewValidationError("title", errs.ConstraintRequired, "title cannot be empty")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return errs.NewValidationError("status", errs.ConstraintType, "status must be draft or published")
	}
	return nil
}

// Create validates, uploads and persists a new project.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	if err := in.normalize(s.now()); err != nil {
		return nil, err
	}

	// Nothing touches the network before every file is accepted.
	if err := s.validator.ValidateAll(in.Files, ingest.RoleGeneral); err != nil {
		return nil, err
	}

	uploads := in.Files
	if in.ThumbnailFile != nil {
		if err := s.validator.Validate(*in.ThumbnailFile, ingest.RoleThumbnail); err != nil {
			return nil, err
		}
		uploads = append(append([]ingest.Upload{}, in.Files...), *in.ThumbnailFile)
	}

	files, cleanup, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return nil, s.writeFailed(ctx, "create", errs.ErrCreateFailed, err, cleanup)
	}

	// The client went away while uploading. Nothing is persisted.
	if err := ctx.Err(); err != nil {
		return nil, s.writeFailed(ctx, "create", errs.ErrCreateFailed, err, s.rollback(ctx, model.Handles(files)))
	}

	thumbnail := in.Thumbnail
	if in.ThumbnailFile != nil {
		url := files[len(files)-1].URL
		thumbnail = &url
	}
	if thumbnail == nil {
		thumbnail = model.FirstImageURL(files)
	}

	project, err := s.projects.Create(ctx, nil, &model.Project{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Tags:        in.Tags,
		Year:        in.Year,
		Status:      in.Status,
		Thumbnail:   thumbnail,
		AuthorID:    in.AuthorID,
	}, files)
	switch {
	case errors.Is(err, errs.ErrReloadFailed):
		// Committed. The blobs belong to stored rows now.
		s.logger.Warnf("Created project %s without reloading it: %v", project.ID, err)
	case err != nil:
		return nil, s.writeFailed(ctx, "create", errs.ErrCreateFailed, err, s.rollback(ctx, model.Handles(files)))
	}

	s.logger.Infof("Created project %s with %d file(s)", project.ID, len(files))
	return project, nil
}

// Update removes files, uploads new ones and applies the patch. Removed blobs
// that could not be deleted come back as warnings next to the project.
func (s *ProjectService) Update(ctx context.Context, in UpdateProjectInput) (*model.Project, CleanupReport, error) {
	var report CleanupReport

	if err := validatePatch(in.Patch); err != nil {
		return nil, report, err
	}
	if len(in.NewFiles) > 0 {
		if err := s.validator.ValidateAll(in.NewFiles, ingest.RoleGeneral); err != nil {
			return nil, report, err
		}
	}

	current, err := s.projects.GetByID(ctx, nil, in.ProjectID)
	if err != nil {
		return nil, report, err
	}
	if !current.IsOwnedBy(in.UserID) {
		return nil, report, errs.ErrForbidden
	}

	thumbnail := current.Thumbnail
	var removed []model.ProjectFile
	if len(in.RemoveFileIDs) > 0 {
		removed, err = s.projects.GetFilesByIDs(ctx, nil, in.ProjectID, in.RemoveFileIDs)
		if err != nil {
			return nil, report, fmt.Errorf("%w: %w", errs.ErrUpdateFailed, err)
		}

		if len(removed) > 0 {
			report.Warnings = s.deleteBlobs(ctx, model.Handles(removed))
			s.recordPending(ctx, "update", report.Warnings)

			var removal repository.ProjectPatch
			if current.ThumbnailIsFile(removed) {
				none := ""
				removal.Thumbnail = &none
				thumbnail = nil
			}
			if _, err := s.projects.Update(ctx, nil, in.ProjectID, removal, nil, fileIDs(removed)); err != nil && !errors.Is(err, errs.ErrReloadFailed) {
				return nil, report, fmt.Errorf("%w: %w", errs.ErrUpdateFailed, err)
			}
		}
	}

	var added []model.ProjectFile
	if len(in.NewFiles) > 0 {
		var cleanup []errs.CleanupFailure
		added, cleanup, err = s.uploadAll(ctx, in.NewFiles)
		if err != nil {
			return nil, report, s.writeFailed(ctx, "update", errs.ErrUpdateFailed, err, cleanup)
		}

		if err := ctx.Err(); err != nil {
			return nil, report, s.writeFailed(ctx, "update", errs.ErrUpdateFailed, err, s.rollback(ctx, model.Handles(added)))
		}
	}

	patch := in.Patch
	if patch.Thumbnail != nil {
		thumbnail = patch.Thumbnail
	}
	if thumbnail == nil || *thumbnail == "" {
		if derived := model.FirstImageURL(added); derived != nil {
			patch.Thumbnail = derived
		}
	}

	project, err := s.projects.Update(ctx, nil, in.ProjectID, patch, added, nil)
	switch {
	case errors.Is(err, errs.ErrReloadFailed):
		s.logger.Warnf("Updated project %s without reloading it: %v", in.ProjectID, err)
		return updatedCopy(current, removed, added, patch), report, nil
	case err != nil:
		return nil, report, s.writeFailed(ctx, "update", errs.ErrUpdateFailed, err, s.rollback(ctx, model.Handles(added)))
	}

	return project, report, nil
}

// updatedCopy is the committed state of an update built from what was read before it.
func updatedCopy(current *model.Project, removed, added []model.ProjectFile, patch repository.ProjectPatch) *model.Project {
	project := *current

	gone := make(map[string]bool, len(removed))
	for _, f := range removed {
		gone[f.ID] = true
	}
	project.Files = make([]model.ProjectFile, 0, len(current.Files)+len(added))
	for _, f := range current.Files {
		if !gone[f.ID] {
			project.Files = append(project.Files, f)
		}
	}
	project.Files = append(project.Files, added...)

	if current.ThumbnailIsFile(removed) {
		project.Thumbnail = nil
	}
	patch.ApplyTo(&project)
	return &project
}

// Delete removes every blob of the project best-effort, then the project itself.
func (s *ProjectService) Delete(ctx context.Context, projectID, userID string) (CleanupReport, error) {
	var report CleanupReport

	project, err := s.projects.GetByID(ctx, nil, projectID)
	if err != nil {
		return report, err
	}
	if !project.IsOwnedBy(userID) {
		return report, errs.ErrForbidden
	}

	handles := model.Handles(project.Files)
	report.Warnings = s.deleteBlobs(ctx, handles)
	s.recordPending(ctx, "delete", report.Warnings)

	if err := s.projects.Delete(ctx, nil, projectID); err != nil {
		return report, err
	}

	s.logger.Infof("Deleted project %s, %d of %d blob(s) left behind", projectID, len(report.Warnings), len(handles))
	return report, nil
}

// UploadSingle stores one standalone file, used by the document and thumbnail endpoints.
func (s *ProjectService) UploadSingle(ctx context.Context, u ingest.Upload, role ingest.Role) (model.ProjectFile, error) {
	if err := s.validator.Validate(u, role); err != nil {
		return model.ProjectFile{}, err
	}

	folder := constant.FolderDocuments
	if role == ingest.RoleThumbnail {
		folder = constant.FolderThumbnails
	}

	file, err := s.upload(context.WithoutCancel(ctx), u, folder)
	if err != nil {
		return model.ProjectFile{}, err
	}
	return file, nil
}

// uploadAll puts every upload concurrently and waits for all of them. When
// one fails, every upload that succeeded is deleted again.
func (s *ProjectService) uploadAll(ctx context.Context, uploads []ingest.Upload) ([]model.ProjectFile, []errs.CleanupFailure, error) {
	// In flight uploads finish even if the request is aborted, so they can be rolled back.
	detached := context.WithoutCancel(ctx)

	files := make([]model.ProjectFile, len(uploads))
	stored := make([]bool, len(uploads))

	var g errgroup.Group
	for i, u := range uploads {
		i, u := i, u
		g.Go(func() error {
			f, err := s.upload(detached, u, s.folder)
			if err != nil {
				return err
			}
			files[i], stored[i] = f, true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var handles []string
		for i := range files {
			if stored[i] {
				handles = append(handles, files[i].Handle)
			}
		}
		return nil, s.rollback(ctx, handles), err
	}

	return files, nil, nil
}

func (s *ProjectService) upload(ctx context.Context, u ingest.Upload, folder string) (model.ProjectFile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	if u.Open == nil {
		return model.ProjectFile{}, fmt.Errorf("%w: %s has no content", errs.ErrUploadRejected, u.Name)
	}

	body, err := u.Open()
	if err != nil {
		return model.ProjectFile{}, fmt.Errorf("%w: open %s: %v", errs.ErrUploadRejected, u.Name, err)
	}
	defer body.Close()

	loc, err := s.store.Put(ctx, filestorage.Blob{
		Name:        u.Name,
		ContentType: u.MimeType,
		Size:        u.Size,
		Body:        body,
	}, folder)
	if err != nil {
		return model.ProjectFile{}, fmt.Errorf("upload %s: %w", u.Name, err)
	}

	return model.ProjectFile{
		Name:     u.Name,
		MimeType: u.MimeType,
		Size:     u.Size,
		URL:      loc.URL,
		Handle:   loc.Handle,
	}, nil
}

// rollback is the compensating action of a failed write.
func (s *ProjectService) rollback(ctx context.Context, handles []string) []errs.CleanupFailure {
	if len(handles) == 0 {
		return nil
	}

	s.logger.Warnf("Rolling back %d uploaded blob(s)", len(handles))
	return s.deleteBlobs(ctx, handles)
}

// deleteBlobs deletes best-effort and returns the failures in input order.
func (s *ProjectService) deleteBlobs(ctx context.Context, handles []string) []errs.CleanupFailure {
	if len(handles) == 0 {
		return nil
	}

	detached := context.WithoutCancel(ctx)
	results := make([]error, len(handles))

	var g errgroup.Group
	g.SetLimit(util.DetermineWorkers(len(handles)))
	for i, handle := range handles {
		i, handle := i, handle
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(detached, s.uploadTimeout)
			defer cancel()
			results[i] = s.store.Delete(ctx, handle)
			return nil
		})
	}
	_ = g.Wait()

	var failures []errs.CleanupFailure
	for i, err := range results {
		if err != nil {
			s.logger.Errorf("Failed to delete blob %s: %v", handles[i], err)
			failures = append(failures, errs.NewCleanupFailure(handles[i], err))
		}
	}
	return failures
}

func (s *ProjectService) recordPending(ctx context.Context, operation string, failures []errs.CleanupFailure) {
	if len(failures) == 0 {
		return
	}

	s.metrics.AddCleanupFailures(operation, len(failures))
	if s.pending == nil {
		return
	}
	if err := s.pending.Record(context.WithoutCancel(ctx), nil, failures); err != nil {
		s.logger.Errorf("Failed to record %d pending blob deletion(s): %v", len(failures), err)
	}
}

func (s *ProjectService) writeFailed(ctx context.Context, operation string, op, cause error, cleanup []errs.CleanupFailure) error {
	s.metrics.IncRollback(operation)
	s.recordPending(ctx, operation, cleanup)
	s.logger.Warnf("Project %s failed and was rolled back: %v", operation, cause)

	return &errs.WriteError{Op: op, Cause: cause, Cleanup: cleanup}
}

func fileIDs(files []model.ProjectFile) []string {
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	return ids
}
