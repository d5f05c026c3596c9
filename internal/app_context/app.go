package appcontext

import (
	"github.com/SeakMengs/ProjectHub/internal/auth"
	"github.com/SeakMengs/ProjectHub/internal/config"
	filestorage "github.com/SeakMengs/ProjectHub/internal/file_storage"
	"github.com/SeakMengs/ProjectHub/internal/ingest"
	"github.com/SeakMengs/ProjectHub/internal/mailer"
	"github.com/SeakMengs/ProjectHub/internal/metrics"
	"github.com/SeakMengs/ProjectHub/internal/repository"
	"github.com/SeakMengs/ProjectHub/internal/service"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Repository provides access to data storage operations.
	Repository *repository.Repository

	// Mailer handles email-sending functions.
	Mailer mailer.Client

	// JWTService issues and verifies identity tokens.
	JWTService auth.JWTInterface

	// Store is the object store every upload path goes through.
	Store filestorage.ObjectStore

	Validator *ingest.Validator

	// ProjectService coordinates project writes across the store and the database.
	ProjectService *service.ProjectService

	Metrics *metrics.Metrics
}
