package ingest

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

type Role string

const (
	// RoleDocument is a single project document (pdf, doc, docx).
	RoleDocument Role = "document"
	// RoleThumbnail is a project cover image.
	RoleThumbnail Role = "thumbnail"
	// RoleGeneral is any file attached through the multi-file project upload.
	RoleGeneral Role = "general"
)

// Upload is a file received from a client, not yet stored.
type Upload struct {
	Name     string
	MimeType string
	Size     int64
	Open     func() (io.ReadSeekCloser, error)
}

func FromFileHeader(fh *multipart.FileHeader) Upload {
	return Upload{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Open: func() (io.ReadSeekCloser, error) {
			return fh.Open()
		},
	}
}

func FromFileHeaders(fhs []*multipart.FileHeader) []Upload {
	uploads := make([]Upload, 0, len(fhs))
	for _, fh := range fhs {
		uploads = append(uploads, FromFileHeader(fh))
	}
	return uploads
}

func (u Upload) Extension() string {
	return strings.ToLower(filepath.Ext(u.Name))
}

func (u Upload) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(u.MimeType), "image/")
}

type Validator struct {
	cfg    config.UploadConfig
	logger *zap.SugaredLogger
}

func NewValidator(cfg config.UploadConfig, logger *zap.SugaredLogger) *Validator {
	return &Validator{cfg: cfg, logger: logger}
}

// Validate returns nil when the upload is acceptable for the role,
// otherwise an *errs.ValidationError naming the broken constraint.
func (v *Validator) Validate(u Upload, role Role) error {
	field := fieldForRole(role)

	if strings.TrimSpace(u.Name) == "" {
		return errs.NewValidationError(field, errs.ConstraintRequired, "file name is required")
	}

	mimeType := normalizeMime(u.MimeType)

	switch role {
	case RoleDocument:
		if !containsFold(v.cfg.DocumentExtensions, u.Extension()) {
			return errs.NewValidationError(field, errs.ConstraintExtension, "%s: extension %q is not allowed, allowed: %s", u.Name, u.Extension(), strings.Join(v.cfg.DocumentExtensions, ", "))
		}
		if !containsFold(v.cfg.DocumentAllowedTypes, mimeType) {
			return errs.NewValidationError(field, errs.ConstraintType, "%s: file type %q is not allowed for documents", u.Name, u.MimeType)
		}
		if err := checkSize(field, u, v.cfg.MaxDocumentFileSize); err != nil {
			return err
		}
		if v.cfg.CheckDocumentIntegrity && u.Extension() == ".pdf" {
			return v.checkPDF(field, u)
		}
	case RoleThumbnail:
		if !u.IsImage() {
			return errs.NewValidationError(field, errs.ConstraintType, "%s: thumbnail must be an image, got %q", u.Name, u.MimeType)
		}
		if len(v.cfg.ThumbnailAllowedTypes) > 0 && !containsFold(v.cfg.ThumbnailAllowedTypes, mimeType) {
			return errs.NewValidationError(field, errs.ConstraintType, "%s: image type %q is not allowed", u.Name, u.MimeType)
		}
		if len(v.cfg.ThumbnailExtensions) > 0 && !containsFold(v.cfg.ThumbnailExtensions, u.Extension()) {
			return errs.NewValidationError(field, errs.ConstraintExtension, "%s: extension %q is not allowed for thumbnails", u.Name, u.Extension())
		}
		if err := checkSize(field, u, v.cfg.MaxThumbnailFileSize); err != nil {
			return err
		}
	default:
		if !containsFold(v.cfg.GeneralAllowedTypes, mimeType) {
			return errs.NewValidationError(field, errs.ConstraintType, "%s: file type %q is not allowed", u.Name, u.MimeType)
		}
		if err := checkSize(field, u, v.cfg.MaxGeneralFileSize); err != nil {
			return err
		}
	}

	return nil
}

// ValidateAll stops at the first rejected upload.
func (v *Validator) ValidateAll(uploads []Upload, role Role) error {
	if v.cfg.MaxFilesPerProject > 0 && len(uploads) > v.cfg.MaxFilesPerProject {
		return errs.NewValidationError(fieldForRole(role), errs.ConstraintCount, "at most %d files can be uploaded at once, got %d", v.cfg.MaxFilesPerProject, len(uploads))
	}

	for _, u := range uploads {
		if err := v.Validate(u, role); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) checkPDF(field string, u Upload) error {
	if u.Open == nil {
		return nil
	}

	rs, err := u.Open()
	if err != nil {
		return errs.NewValidationError(field, errs.ConstraintContent, "%s: cannot read file: %v", u.Name, err)
	}
	defer rs.Close()

	if err := api.Validate(rs, nil); err != nil {
		if v.logger != nil {
			v.logger.Debugf("Rejected pdf %s: %v", u.Name, err)
		}
		return errs.NewValidationError(field, errs.ConstraintContent, "%s: not a valid pdf document", u.Name)
	}

	return nil
}

func checkSize(field string, u Upload, max int64) error {
	if max > 0 && u.Size > max {
		return errs.NewValidationError(field, errs.ConstraintSize, "%s: file size %d exceeds limit of %d bytes", u.Name, u.Size, max)
	}
	return nil
}

func fieldForRole(role Role) string {
	switch role {
	case RoleDocument:
		return "file"
	case RoleThumbnail:
		return "thumbnail"
	default:
		return "files"
	}
}

// normalizeMime drops parameters such as "; charset=utf-8".
func normalizeMime(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.ToLower(strings.TrimSpace(m))
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(item string) bool {
		return strings.EqualFold(strings.TrimSpace(item), s)
	})
}
