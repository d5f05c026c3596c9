package constant

type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusPublished ProjectStatus = "published"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusPublished:
		return true
	}
	return false
}

// Folder names inside the bucket. All upload paths go through the same store.
const (
	FolderProjects   = "projects"
	FolderDocuments  = "documents"
	FolderThumbnails = "thumbnails"
)
