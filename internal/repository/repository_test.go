package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepository opens a private in-memory sqlite database per test.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewRepository(db, util.NewLogger("development"))
}

func seedUser(t *testing.T, repo *Repository, email string) *model.User {
	t.Helper()

	user, err := repo.User.Create(context.Background(), nil, &model.User{Email: email, Name: "Student"})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedProject(t *testing.T, repo *Repository, authorID, title string, status constant.ProjectStatus, tags ...string) *model.Project {
	t.Helper()

	project, err := repo.Project.Create(context.Background(), nil, &model.Project{
		Title:       title,
		Description: "description of " + title,
		Category:    "Software",
		Year:        2024,
		Status:      status,
		AuthorID:    authorID,
		Tags:        tags,
	}, nil)
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return project
}

func fileRow(name, mimeType string) model.ProjectFile {
	return model.ProjectFile{
		Name:     name,
		MimeType: mimeType,
		Size:     42,
		URL:      "memory://blobs/projects/" + name,
		Handle:   "projects/" + name,
	}
}

func countRows(t *testing.T, repo *Repository, m any, projectID string) int64 {
	t.Helper()

	var count int64
	if err := repo.DB.Model(m).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}
