package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"gorm.io/gorm"
)

func TestProjectCreate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	author := seedUser(t, repo, "author@example.com")

	files := []model.ProjectFile{
		fileRow("doc.pdf", "application/pdf"),
		fileRow("pic1.png", "image/png"),
		fileRow("pic2.jpg", "image/jpeg"),
	}

	project, err := repo.Project.Create(ctx, nil, &model.Project{
		Title:    "Robot Arm",
		Category: "Hardware",
		Year:     2024,
		Status:   constant.ProjectStatusDraft,
		AuthorID: author.ID,
		Tags:     []string{"AI", "ML", "AI"},
	}, files)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(project.Files) != 3 {
		t.Errorf("expected 3 files, got %d", len(project.Files))
	}
	if project.Status != constant.ProjectStatusDraft {
		t.Errorf("status = %s, want draft", project.Status)
	}
	if want := []string{"AI", "ML", "AI"}; !reflect.DeepEqual(project.Tags, want) {
		t.Errorf("tags = %v, want %v", project.Tags, want)
	}
	if project.Author.Email != "author@example.com" {
		t.Errorf("expected author to be loaded, got %+v", project.Author)
	}
}

func TestProjectCreateFailureLeavesNothing(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	author := seedUser(t, repo, "author@example.com")

	dup := fileRow("same.png", "image/png")
	_, err := repo.Project.Create(ctx, nil, &model.Project{
		Title:    "Broken",
		Year:     2024,
		Status:   constant.ProjectStatusPublished,
		AuthorID: author.ID,
		Tags:     []string{"AI"},
	}, []model.ProjectFile{dup, dup})
	if !errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	for _, m := range []any{&model.Project{}, &model.ProjectTag{}, &model.ProjectFile{}} {
		var count int64
		repo.DB.Model(m).Count(&count)
		if count != 0 {
			t.Errorf("expected no %T rows after failed create, got %d", m, count)
		}
	}
}

func TestProjectUpdate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	author := seedUser(t, repo, "author@example.com")

	thumb := "memory://blobs/projects/pic1.png"
	created, err := repo.Project.Create(ctx, nil, &model.Project{
		Title:     "Old title",
		Year:      2023,
		Status:    constant.ProjectStatusDraft,
		AuthorID:  author.ID,
		Thumbnail: &thumb,
		Tags:      []string{"AI"},
	}, []model.ProjectFile{fileRow("pic1.png", "image/png"), fileRow("doc.pdf", "application/pdf")})
	if err != nil {
		t.Fatal(err)
	}

	var removeID string
	for _, f := range created.Files {
		if f.Name == "pic1.png" {
			removeID = f.ID
		}
	}

	title := "New title"
	status := constant.ProjectStatusPublished
	tags := []string{"ML", "Web"}
	noThumbnail := ""
	updated, err := repo.Project.Update(ctx, nil, created.ID, ProjectPatch{
		Title:     &title,
		Status:    &status,
		Tags:      &tags,
		Thumbnail: &noThumbnail,
	}, []model.ProjectFile{fileRow("notes.txt", "text/plain")}, []string{removeID, "not-owned-id"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Title != title || updated.Status != status || updated.Year != 2023 {
		t.Errorf("patch not applied correctly: %+v", updated)
	}
	if !reflect.DeepEqual(updated.Tags, tags) {
		t.Errorf("tags = %v, want %v", updated.Tags, tags)
	}
	if updated.Thumbnail != nil {
		t.Errorf("expected thumbnail to be cleared, got %v", *updated.Thumbnail)
	}

	names := map[string]bool{}
	for _, f := range updated.Files {
		names[f.Name] = true
	}
	if len(updated.Files) != 2 || !names["doc.pdf"] || !names["notes.txt"] {
		t.Errorf("unexpected files after update: %v", names)
	}

	_, err = repo.Project.Update(ctx, nil, "missing", ProjectPatch{Title: &title}, nil, nil)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	author := seedUser(t, repo, "author@example.com")

	project, err := repo.Project.Create(ctx, nil, &model.Project{
		Title:    "Doomed",
		Year:     2024,
		Status:   constant.ProjectStatusPublished,
		AuthorID: author.ID,
		Tags:     []string{"AI"},
	}, []model.ProjectFile{fileRow("a.png", "image/png")})
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Engagement.Like(ctx, nil, author.ID, project.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Engagement.AddComment(ctx, nil, author.ID, project.ID, "nice"); err != nil {
		t.Fatal(err)
	}

	if err := repo.Project.Delete(ctx, nil, project.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	for _, m := range []any{&model.ProjectFile{}, &model.ProjectTag{}, &model.Like{}, &model.Comment{}} {
		if n := countRows(t, repo, m, project.ID); n != 0 {
			t.Errorf("expected no %T rows, got %d", m, n)
		}
	}

	if err := repo.Project.Delete(ctx, nil, project.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := repo.Project.GetByID(ctx, nil, project.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on get, got %v", err)
	}
}

func TestGetFilesByIDs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	author := seedUser(t, repo, "author@example.com")

	mine, err := repo.Project.Create(ctx, nil, &model.Project{Title: "Mine", Year: 2024, Status: constant.ProjectStatusPublished, AuthorID: author.ID},
		[]model.ProjectFile{fileRow("a.png", "image/png")})
	if err != nil {
		t.Fatal(err)
	}
	other, err := repo.Project.Create(ctx, nil, &model.Project{Title: "Other", Year: 2024, Status: constant.ProjectStatusPublished, AuthorID: author.ID},
		[]model.ProjectFile{fileRow("b.png", "image/png")})
	if err != nil {
		t.Fatal(err)
	}

	files, err := repo.Project.GetFilesByIDs(ctx, nil, mine.ID, []string{mine.Files[0].ID, other.Files[0].ID})
	if err != nil {
		t.Fatalf("GetFilesByIDs() error = %v", err)
	}
	if len(files) != 1 || files[0].ID != mine.Files[0].ID {
		t.Errorf("expected only the owned file, got %+v", files)
	}
}

func TestSearchRequiresAllTags(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	author := seedUser(t, repo, "author@example.com")

	both := seedProject(t, repo, author.ID, "Both", constant.ProjectStatusPublished, "AI", "ML")
	seedProject(t, repo, author.ID, "Only AI", constant.ProjectStatusPublished, "AI")
	seedProject(t, repo, author.ID, "Only ML", constant.ProjectStatusPublished, "ML", "Web")

	tests := []struct {
		name string
		tags []string
		want int64
	}{
		{"repeated params", []string{"AI", "ML"}, 1},
		{"comma list", []string{"AI,ML"}, 1},
		{"single tag", []string{"AI"}, 2},
		{"exact case", []string{"ai", "ml"}, 0},
		{"no tags", nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.Project.Search(ctx, nil, SearchFilter{Tags: tt.tags})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if result.Total != tt.want {
				t.Errorf("total = %d, want %d", result.Total, tt.want)
			}
		})
	}

	result, _ := repo.Project.Search(ctx, nil, SearchFilter{Tags: []string{"AI", "ML"}})
	if len(result.Projects) != 1 || result.Projects[0].ID != both.ID {
		t.Errorf("expected project %s, got %+v", both.ID, result.Projects)
	}
}

func TestSearchPagination(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	author := seedUser(t, repo, "author@example.com")

	for i := 0; i < 25; i++ {
		seedProject(t, repo, author.ID, fmt.Sprintf("Project %02d", i), constant.ProjectStatusPublished)
	}

	seen := map[string]bool{}
	for page, want := range map[int]int{1: 10, 2: 10, 3: 5} {
		result, err := repo.Project.Search(ctx, nil, SearchFilter{Page: page, Limit: 10})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if result.Total != 25 || result.PageCount != 3 {
			t.Errorf("page %d: total = %d pages = %d, want 25 and 3", page, result.Total, result.PageCount)
		}
		if len(result.Projects) != want {
			t.Errorf("page %d: got %d projects, want %d", page, len(result.Projects), want)
		}
		for _, p := range result.Projects {
			if seen[p.ID] {
				t.Errorf("project %s returned on more than one page", p.ID)
			}
			seen[p.ID] = true
		}
	}
	if len(seen) != 25 {
		t.Errorf("expected 25 distinct projects across pages, got %d", len(seen))
	}

	result, err := repo.Project.Search(ctx, nil, SearchFilter{Page: 4, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Projects) != 0 || result.PageCount != 3 {
		t.Errorf("page past the end should be empty, got %d projects", len(result.Projects))
	}
}

func TestSearchDefaultsAndQuery(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	author := seedUser(t, repo, "author@example.com")

	ml := seedProject(t, repo, author.ID, "Machine Learning Basics", constant.ProjectStatusPublished)
	seedProject(t, repo, author.ID, "Web Portal", constant.ProjectStatusPublished)
	seedProject(t, repo, author.ID, "Secret machine draft", constant.ProjectStatusDraft)

	tests := []struct {
		name   string
		filter SearchFilter
		want   int64
	}{
		{"published by default", SearchFilter{}, 2},
		{"drafts on request", SearchFilter{Status: constant.ProjectStatusDraft}, 1},
		{"title case insensitive", SearchFilter{Query: "MACHINE"}, 1},
		{"description match", SearchFilter{Query: "description of web"}, 1},
		{"like wildcard is literal", SearchFilter{Query: "%"}, 0},
		{"category", SearchFilter{Category: "Software"}, 2},
		{"category exact case", SearchFilter{Category: "software"}, 0},
		{"unknown category", SearchFilter{Category: "Art"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.Project.Search(ctx, nil, tt.filter)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if result.Total != tt.want {
				t.Errorf("total = %d, want %d", result.Total, tt.want)
			}
			if tt.want == 0 && result.PageCount != 0 {
				t.Errorf("empty result should have 0 pages, got %d", result.PageCount)
			}
		})
	}

	result, _ := repo.Project.Search(ctx, nil, SearchFilter{Query: "machine"})
	if len(result.Projects) != 1 || result.Projects[0].ID != ml.ID {
		t.Errorf("expected the published machine project only")
	}

	mine, err := repo.Project.ListByAuthor(ctx, nil, author.ID, SearchFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if mine.Total != 3 {
		t.Errorf("ListByAuthor() total = %d, want 3", mine.Total)
	}
}

func TestSearchFilterNormalize(t *testing.T) {
	f := SearchFilter{Page: -1, Limit: 1000, Tags: []string{" AI ", "", "ML, Web"}}.Normalize()

	if f.Page != 1 || f.Limit != constant.MaxPageSize {
		t.Errorf("page/limit = %d/%d, want 1/%d", f.Page, f.Limit, constant.MaxPageSize)
	}
	if f.Status != constant.ProjectStatusPublished {
		t.Errorf("status = %s, want published", f.Status)
	}
	if want := []string{"AI", "ML", "Web"}; !reflect.DeepEqual(f.Tags, want) {
		t.Errorf("tags = %v, want %v", f.Tags, want)
	}

	if f := (SearchFilter{}).Normalize(); f.Limit != constant.DefaultPageSize {
		t.Errorf("default limit = %d, want %d", f.Limit, constant.DefaultPageSize)
	}
}

func TestProjectWriteReloadFailure(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	author := seedUser(t, repo, "author@example.com")

	failReads := false
	err := repo.DB.Callback().Query().Before("gorm:query").Register("test:fail_project_reads", func(tx *gorm.DB) {
		if failReads && tx.Statement.Table == "projects" && len(tx.Statement.Selects) == 0 {
			tx.AddError(errors.New("connection reset"))
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	failReads = true
	project, err := repo.Project.Create(ctx, nil, &model.Project{
		Title:    "Saved",
		Year:     2024,
		Status:   constant.ProjectStatusPublished,
		AuthorID: author.ID,
		Tags:     []string{"AI", "AI"},
	}, []model.ProjectFile{fileRow("a.png", "image/png")})
	if !errors.Is(err, errs.ErrReloadFailed) || errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("expected only ErrReloadFailed, got %v", err)
	}
	if project == nil || project.ID == "" || len(project.Files) != 1 || project.Files[0].ID == "" {
		t.Fatalf("expected the written project with its file ids, got %+v", project)
	}
	if !reflect.DeepEqual(project.Tags, []string{"AI", "AI"}) {
		t.Errorf("Tags = %v", project.Tags)
	}

	title := "Renamed"
	updated, err := repo.Project.Update(ctx, nil, project.ID, ProjectPatch{Title: &title}, nil, nil)
	if !errors.Is(err, errs.ErrReloadFailed) || updated != nil {
		t.Fatalf("expected ErrReloadFailed with no project, got %v, %v", updated, err)
	}

	failReads = false
	stored, err := repo.Project.GetByID(ctx, nil, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Title != title || len(stored.Files) != 1 {
		t.Errorf("write was not committed: %+v", stored)
	}
}

func TestProjectPatchApplyTo(t *testing.T) {
	thumb := "memory://blobs/old.png"
	project := model.Project{Title: "Old", Year: 2023, Thumbnail: &thumb}

	title, none := "New", ""
	year := 2024
	tags := []string{" AI ", "", "ML"}
	ProjectPatch{Title: &title, Year: &year, Thumbnail: &none, Tags: &tags}.ApplyTo(&project)

	if project.Title != "New" || project.Year != 2024 || project.Thumbnail != nil {
		t.Errorf("unexpected project %+v", project)
	}
	if !reflect.DeepEqual(project.Tags, []string{"AI", "ML"}) {
		t.Errorf("Tags = %v, want [AI ML]", project.Tags)
	}
}
