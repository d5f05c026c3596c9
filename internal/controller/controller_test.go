package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	appcontext "github.com/SeakMengs/ProjectHub/internal/app_context"
	"github.com/SeakMengs/ProjectHub/internal/auth"
	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/controller"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	filestorage "github.com/SeakMengs/ProjectHub/internal/file_storage"
	"github.com/SeakMengs/ProjectHub/internal/ingest"
	"github.com/SeakMengs/ProjectHub/internal/mailer"
	"github.com/SeakMengs/ProjectHub/internal/middleware"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"github.com/SeakMengs/ProjectHub/internal/repository"
	"github.com/SeakMengs/ProjectHub/internal/route"
	"github.com/SeakMengs/ProjectHub/internal/service"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var registerValidators sync.Once

type testServer struct {
	router *gin.Engine
	app    *appcontext.Application
	store  *filestorage.MemoryStore
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registerValidators.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := util.RegisterValidations(v); err != nil {
				t.Fatal(err)
			}
		}
	})

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := config.Config{
		ENV:      "test",
		FrontURL: "http://localhost:3000",
		Minio:    config.MinioConfig{FOLDER: constant.FolderProjects},
		Upload:   config.DefaultUploadConfig(),
		Auth:     config.AuthConfig{JWT_SECRET: "test-secret", TokenTTL: time.Hour, CookieName: "auth_token"},
	}

	log := util.NewLogger("development")
	repo := repository.NewRepository(db, log)
	store := filestorage.NewMemoryStore("")
	fileValidator := ingest.NewValidator(cfg.Upload, log)

	app := &appcontext.Application{
		Config:         &cfg,
		Logger:         log,
		Repository:     repo,
		Mailer:         mailer.NewNoopMailer(log),
		JWTService:     auth.NewJwt(cfg.Auth, log),
		Store:          store,
		Validator:      fileValidator,
		ProjectService: service.NewProjectService(repo.Project, repo.PendingDeletion, store, fileValidator, cfg, nil, log),
	}

	c := controller.NewController(app)
	m := middleware.NewMiddleware(app, nil)

	r := gin.New()
	r.ContextWithFallback = true
	r.GET("/", c.Index.Index)
	route.Register(r.Group("/api"), c, m)

	return testServer{router: r, app: app, store: store}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func (s testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid json response %q", method, path, w.Body.String())
	}
	return w.Code, env
}

func (s testServer) doJSON(t *testing.T, method, path, token string, payload any) (int, envelope) {
	t.Helper()
	raw, _ := json.Marshal(payload)
	return s.do(t, method, path, token, bytes.NewReader(raw), "application/json")
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("failed to decode %s: %v", raw, err)
	}
	return v
}

type formFile struct {
	field    string
	name     string
	mimeType string
}

// multipartBody sets each file's own Content-Type, which the validator checks.
func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (io.Reader, string) {
	t.Helper()

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.name))
		h.Set("Content-Type", f.mimeType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("content of " + f.name))
	}
	w.Close()
	return buf, w.FormDataContentType()
}

type authData struct {
	User  controller.UserResponse `json:"user"`
	Token string                  `json:"token"`
}

func (s testServer) signup(t *testing.T, email string) authData {
	t.Helper()
	code, env := s.doJSON(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": email, "password": "secret-pass", "name": "Student"})
	if code != http.StatusCreated {
		t.Fatalf("signup status = %d, errors = %s", code, env.Errors)
	}
	return decode[authData](t, env.Data)
}

type projectData struct {
	Project model.Project `json:"project"`
}

func (s testServer) createProject(t *testing.T, token string, fields map[string]string, files ...formFile) model.Project {
	t.Helper()
	body, contentType := multipartBody(t, fields, files...)
	code, env := s.do(t, http.MethodPost, "/api/v1/projects", token, body, contentType)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d, errors = %s", code, env.Errors)
	}
	return decode[projectData](t, env.Data).Project
}

func projectFields(title, status, tags string) map[string]string {
	return map[string]string{
		"title":       title,
		"description": "A student project",
		"category":    "IoT",
		"tags":        tags,
		"year":        "2024",
		"status":      status,
	}
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/", "", nil, "")
	if code != http.StatusOK || !env.Success {
		t.Errorf("health status = %d", code)
	}
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)

	created := s.signup(t, "dara@example.com")
	if created.Token == "" || created.User.Email != "dara@example.com" {
		t.Fatalf("unexpected signup response %+v", created)
	}

	tests := []struct {
		name     string
		path     string
		payload  gin.H
		wantCode int
	}{
		{"signup existing user", "/api/v1/auth/signup", gin.H{"email": "DARA@example.com", "password": "x"}, http.StatusBadRequest},
		{"signup missing password", "/api/v1/auth/signup", gin.H{"email": "new@example.com"}, http.StatusBadRequest},
		{"signup password over 72 bytes", "/api/v1/auth/signup", gin.H{"email": "long@example.com", "password": strings.Repeat("é", 40)}, http.StatusBadRequest},
		{"login missing fields", "/api/v1/auth/login", gin.H{"email": "dara@example.com"}, http.StatusBadRequest},
		{"login wrong password", "/api/v1/auth/login", gin.H{"email": "dara@example.com", "password": "wrong"}, http.StatusUnauthorized},
		{"login unknown user", "/api/v1/auth/login", gin.H{"email": "nobody@example.com", "password": "secret-pass"}, http.StatusUnauthorized},
		{"login", "/api/v1/auth/login", gin.H{"email": "dara@example.com", "password": "secret-pass"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := s.doJSON(t, http.MethodPost, tt.path, "", tt.payload)
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d, errors = %s", code, tt.wantCode, env.Errors)
			}
		})
	}

	code, env := s.do(t, http.MethodGet, "/api/v1/me", created.Token, nil, "")
	if code != http.StatusOK {
		t.Fatalf("me status = %d", code)
	}
	me := decode[struct {
		User controller.UserResponse `json:"user"`
	}](t, env.Data)
	if me.User.ID != created.User.ID {
		t.Errorf("me = %+v, want %s", me.User, created.User.ID)
	}
}

func TestVerifyJwtAccessToken(t *testing.T) {
	s := newTestServer(t)
	user := s.signup(t, "dara@example.com")

	if code, _ := s.do(t, http.MethodPost, "/api/v1/auth/jwt/access/verify/"+user.Token, "", nil, ""); code != http.StatusOK {
		t.Errorf("valid token status = %d", code)
	}
	if code, _ := s.do(t, http.MethodPost, "/api/v1/auth/jwt/access/verify/garbage", "", nil, ""); code != http.StatusUnauthorized {
		t.Errorf("invalid token status = %d", code)
	}
}

func TestCreateAndSearchProjects(t *testing.T) {
	s := newTestServer(t)
	user := s.signup(t, "dara@example.com")

	project := s.createProject(t, user.Token, projectFields("Smart Farm", "published", `["AI","ML"]`),
		formFile{"files", "doc.pdf", "application/pdf"},
		formFile{"files", "pic1.png", "image/png"},
	)
	if len(project.Files) != 2 || project.Thumbnail == nil || !strings.HasSuffix(*project.Thumbnail, "_pic1.png") {
		t.Fatalf("unexpected project %+v", project)
	}
	s.createProject(t, user.Token, projectFields("Chat Bot", "published", "AI"), formFile{"files", "bot.zip", "application/zip"})
	s.createProject(t, user.Token, projectFields("Secret", "draft", "AI,ML"), formFile{"files", "notes.txt", "text/plain"})

	tests := []struct {
		query     string
		wantTotal int64
	}{
		{"", 2},
		{"?tags=AI", 2},
		{"?tags=AI,ML", 1},
		{"?tags=AI&tags=ML", 1},
		{"?query=smart", 1},
		{"?limit=1&page=2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			code, env := s.do(t, http.MethodGet, "/api/v1/projects"+tt.query, "", nil, "")
			if code != http.StatusOK {
				t.Fatalf("status = %d, errors = %s", code, env.Errors)
			}
			result := decode[struct {
				Projects   []model.Project `json:"projects"`
				Pagination struct {
					Total int64 `json:"total"`
					Pages int   `json:"pages"`
				} `json:"pagination"`
			}](t, env.Data)
			if result.Pagination.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", result.Pagination.Total, tt.wantTotal)
			}
		})
	}

	if code, _ := s.do(t, http.MethodGet, "/api/v1/projects?status=draft", "", nil, ""); code != http.StatusUnauthorized {
		t.Errorf("anonymous draft search status = %d, want %d", code, http.StatusUnauthorized)
	}

	other := s.signup(t, "other@example.com")
	for _, tt := range []struct {
		token string
		want  int64
	}{
		{user.Token, 1},
		{other.Token, 0},
	} {
		code, env := s.do(t, http.MethodGet, "/api/v1/projects?status=draft", tt.token, nil, "")
		if code != http.StatusOK {
			t.Fatalf("draft search status = %d, errors = %s", code, env.Errors)
		}
		drafts := decode[struct {
			Pagination struct {
				Total int64 `json:"total"`
			} `json:"pagination"`
		}](t, env.Data)
		if drafts.Pagination.Total != tt.want {
			t.Errorf("draft search total = %d, want %d", drafts.Pagination.Total, tt.want)
		}
	}

	code, env := s.do(t, http.MethodGet, "/api/v1/me/projects", user.Token, nil, "")
	if code != http.StatusOK {
		t.Fatalf("my projects status = %d", code)
	}
	mine := decode[struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}](t, env.Data)
	if mine.Pagination.Total != 3 {
		t.Errorf("my projects total = %d, want 3 including the draft", mine.Pagination.Total)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	s := newTestServer(t)
	user := s.signup(t, "dara@example.com")

	tests := []struct {
		name     string
		token    string
		fields   map[string]string
		files    []formFile
		wantCode int
	}{
		{"anonymous", "", projectFields("A", "published", ""), []formFile{{"files", "a.pdf", "application/pdf"}}, http.StatusUnauthorized},
		{"missing title", user.Token, projectFields("", "published", ""), []formFile{{"files", "a.pdf", "application/pdf"}}, http.StatusBadRequest},
		{"no files", user.Token, projectFields("A", "published", ""), nil, http.StatusBadRequest},
		{"bad status", user.Token, projectFields("A", "archived", ""), []formFile{{"files", "a.pdf", "application/pdf"}}, http.StatusBadRequest},
		{"disallowed type", user.Token, projectFields("A", "published", ""), []formFile{{"files", "page.html", "text/html"}}, http.StatusBadRequest},
		{"thumbnail not an image", user.Token, projectFields("A", "published", ""), []formFile{{"files", "a.pdf", "application/pdf"}, {"thumbnail", "cover.pdf", "application/pdf"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.fields, tt.files...)
			code, env := s.do(t, http.MethodPost, "/api/v1/projects", tt.token, body, contentType)
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d, errors = %s", code, tt.wantCode, env.Errors)
			}
		})
	}

	if s.store.Len() != 0 {
		t.Errorf("rejected requests must not upload, store has %d blobs", s.store.Len())
	}
}

func TestCreateProjectRollsBackOnUploadFailure(t *testing.T) {
	s := newTestServer(t)
	user := s.signup(t, "dara@example.com")

	s.store.PutHook = func(b filestorage.Blob) error {
		if b.Name == "pic2.png" {
			return fmt.Errorf("%w: disk full", errs.ErrStoreUnavailable)
		}
		return nil
	}

	body, contentType := multipartBody(t, projectFields("A", "published", ""),
		formFile{"files", "doc.pdf", "application/pdf"},
		formFile{"files", "pic2.png", "image/png"},
	)
	code, _ := s.do(t, http.MethodPost, "/api/v1/projects", user.Token, body, contentType)
	if code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", code)
	}
	if s.store.Len() != 0 {
		t.Errorf("expected every blob to be rolled back, %d left", s.store.Len())
	}

	var n int64
	s.app.Repository.DB.Model(&model.Project{}).Count(&n)
	if n != 0 {
		t.Errorf("expected no project rows, got %d", n)
	}
}

func TestCreateProjectAbortedByClient(t *testing.T) {
	s := newTestServer(t)
	user := s.signup(t, "dara@example.com")

	body, contentType := multipartBody(t, projectFields("Gone", "published", "AI"),
		formFile{"files", "pic.png", "image/png"},
		formFile{"files", "doc.pdf", "application/pdf"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", body).WithContext(ctx)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+user.Token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("aborted create status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if s.store.Len() != 0 {
		t.Errorf("uploaded blobs should be rolled back, got %v", s.store.Handles())
	}
	var n int64
	s.app.Repository.DB.Model(&model.Project{}).Count(&n)
	if n != 0 {
		t.Errorf("expected no project rows, got %d", n)
	}
}

func TestDraftVisibility(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "owner@example.com")
	other := s.signup(t, "other@example.com")

	draft := s.createProject(t, owner.Token, projectFields("Draft", "draft", ""), formFile{"files", "a.pdf", "application/pdf"})
	path := "/api/v1/projects/" + draft.ID

	if code, _ := s.do(t, http.MethodGet, path, "", nil, ""); code != http.StatusNotFound {
		t.Errorf("anonymous status = %d, want 404", code)
	}
	if code, _ := s.do(t, http.MethodGet, path, other.Token, nil, ""); code != http.StatusNotFound {
		t.Errorf("other user status = %d, want 404", code)
	}
	if code, _ := s.do(t, http.MethodGet, path, owner.Token, nil, ""); code != http.StatusOK {
		t.Errorf("owner status = %d, want 200", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/api/v1/projects/missing", "", nil, ""); code != http.StatusNotFound {
		t.Errorf("missing project status = %d, want 404", code)
	}
}

func TestUpdateProject(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "owner@example.com")
	other := s.signup(t, "other@example.com")

	project := s.createProject(t, owner.Token, projectFields("Smart Farm", "published", "AI"),
		formFile{"files", "doc.pdf", "application/pdf"},
		formFile{"files", "pic1.png", "image/png"},
	)
	path := "/api/v1/projects/" + project.ID

	code, env := s.doJSON(t, http.MethodPatch, path, owner.Token, gin.H{"title": "Smarter Farm", "tags": "IoT, AI"})
	if code != http.StatusOK {
		t.Fatalf("json patch status = %d, errors = %s", code, env.Errors)
	}
	updated := decode[struct {
		Project  model.Project     `json:"project"`
		Warnings []json.RawMessage `json:"warnings"`
	}](t, env.Data)
	if updated.Project.Title != "Smarter Farm" || strings.Join(updated.Project.Tags, ",") != "IoT,AI" {
		t.Errorf("unexpected project after patch: %s %v", updated.Project.Title, updated.Project.Tags)
	}
	if updated.Warnings == nil || len(updated.Warnings) != 0 {
		t.Errorf("warnings = %v, want empty list", updated.Warnings)
	}

	var image model.ProjectFile
	for _, f := range project.Files {
		if f.IsImage() {
			image = f
		}
	}
	body, contentType := multipartBody(t, map[string]string{"removeFileIds": image.ID},
		formFile{"files", "pic2.jpg", "image/jpeg"},
	)
	code, env = s.do(t, http.MethodPatch, path, owner.Token, body, contentType)
	if code != http.StatusOK {
		t.Fatalf("multipart patch status = %d, errors = %s", code, env.Errors)
	}
	updated = decode[struct {
		Project  model.Project     `json:"project"`
		Warnings []json.RawMessage `json:"warnings"`
	}](t, env.Data)
	if len(updated.Project.Files) != 2 {
		t.Errorf("files = %d, want 2", len(updated.Project.Files))
	}
	if updated.Project.Thumbnail == nil || !strings.HasSuffix(*updated.Project.Thumbnail, "_pic2.jpg") {
		t.Errorf("thumbnail should move to the new image, got %v", updated.Project.Thumbnail)
	}
	if s.store.Has(image.Handle) {
		t.Errorf("removed file blob should be deleted")
	}

	if code, _ := s.doJSON(t, http.MethodPatch, path, other.Token, gin.H{"title": "Hijack"}); code != http.StatusForbidden {
		t.Errorf("other user patch status = %d, want 403", code)
	}
	if code, _ := s.doJSON(t, http.MethodPatch, path, owner.Token, gin.H{"status": "archived"}); code != http.StatusBadRequest {
		t.Errorf("invalid status patch = %d, want 400", code)
	}
}

func TestDeleteProject(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "owner@example.com")

	project := s.createProject(t, owner.Token, projectFields("Smart Farm", "published", ""),
		formFile{"files", "doc.pdf", "application/pdf"},
		formFile{"files", "pic1.png", "image/png"},
	)

	failing := project.Files[0].Handle
	s.store.DeleteHook = func(handle string) error {
		if handle == failing {
			return context.DeadlineExceeded
		}
		return nil
	}

	code, env := s.do(t, http.MethodDelete, "/api/v1/projects/"+project.ID, owner.Token, nil, "")
	if code != http.StatusOK {
		t.Fatalf("delete status = %d, errors = %s", code, env.Errors)
	}
	data := decode[struct {
		Warnings []struct {
			Handle string `json:"handle"`
		} `json:"warnings"`
	}](t, env.Data)
	if len(data.Warnings) != 1 || data.Warnings[0].Handle != failing {
		t.Errorf("warnings = %+v, want one for %s", data.Warnings, failing)
	}

	if code, _ := s.do(t, http.MethodGet, "/api/v1/projects/"+project.ID, owner.Token, nil, ""); code != http.StatusNotFound {
		t.Errorf("deleted project status = %d, want 404", code)
	}
}

func TestUploadFiles(t *testing.T) {
	s := newTestServer(t)
	user := s.signup(t, "dara@example.com")

	tests := []struct {
		name     string
		path     string
		file     formFile
		wantCode int
	}{
		{"document", "/api/v1/files", formFile{"file", "resume.pdf", "application/pdf"}, http.StatusCreated},
		{"document declared as text", "/api/v1/files", formFile{"file", "resume.pdf", "text/plain"}, http.StatusBadRequest},
		{"document wrong field", "/api/v1/files", formFile{"files", "resume.pdf", "application/pdf"}, http.StatusBadRequest},
		{"thumbnail", "/api/v1/files/thumbnail", formFile{"thumbnail", "cover.png", "image/png"}, http.StatusCreated},
		{"thumbnail not an image", "/api/v1/files/thumbnail", formFile{"thumbnail", "cover.pdf", "application/pdf"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, nil, tt.file)
			code, env := s.do(t, http.MethodPost, tt.path, user.Token, body, contentType)
			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d, errors = %s", code, tt.wantCode, env.Errors)
			}
			if code == http.StatusCreated {
				data := decode[struct {
					URL    string `json:"url"`
					Handle string `json:"handle"`
				}](t, env.Data)
				if !s.store.Has(data.Handle) || data.URL == "" {
					t.Errorf("expected blob %s to be stored", data.Handle)
				}
			}
		})
	}
}

func TestLikesAndComments(t *testing.T) {
	s := newTestServer(t)
	user := s.signup(t, "dara@example.com")
	project := s.createProject(t, user.Token, projectFields("Smart Farm", "published", ""), formFile{"files", "doc.pdf", "application/pdf"})
	base := "/api/v1/projects/" + project.ID

	if code, _ := s.do(t, http.MethodPost, base+"/like", "", nil, ""); code != http.StatusUnauthorized {
		t.Errorf("anonymous like status = %d, want 401", code)
	}
	for i := 0; i < 2; i++ {
		if code, _ := s.do(t, http.MethodPost, base+"/like", user.Token, nil, ""); code != http.StatusOK {
			t.Errorf("like status = %d", code)
		}
	}
	if code, _ := s.doJSON(t, http.MethodPost, base+"/comments", user.Token, gin.H{"body": "Nice work"}); code != http.StatusCreated {
		t.Errorf("comment status = %d", code)
	}
	if code, _ := s.doJSON(t, http.MethodPost, base+"/comments", user.Token, gin.H{"body": "   "}); code != http.StatusBadRequest {
		t.Errorf("blank comment status = %d, want 400", code)
	}
	if code, _ := s.doJSON(t, http.MethodPost, "/api/v1/projects/missing/comments", user.Token, gin.H{"body": "hi"}); code != http.StatusNotFound {
		t.Errorf("comment on missing project status = %d, want 404", code)
	}

	_, env := s.do(t, http.MethodGet, base, "", nil, "")
	got := decode[projectData](t, env.Data).Project
	if got.LikeCount != 1 || got.CommentCount != 1 {
		t.Errorf("counts = %d likes, %d comments, want 1 and 1", got.LikeCount, got.CommentCount)
	}

	code, env := s.do(t, http.MethodGet, base+"/comments", "", nil, "")
	if code != http.StatusOK {
		t.Fatalf("list comments status = %d", code)
	}
	comments := decode[struct {
		Comments []model.Comment `json:"comments"`
	}](t, env.Data)
	if len(comments.Comments) != 1 || comments.Comments[0].Body != "Nice work" {
		t.Errorf("comments = %+v", comments.Comments)
	}

	if code, _ := s.do(t, http.MethodDelete, base+"/like", user.Token, nil, ""); code != http.StatusOK {
		t.Errorf("unlike status = %d", code)
	}
}
