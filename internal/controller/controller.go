package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	appcontext "github.com/SeakMengs/ProjectHub/internal/app_context"
	"github.com/SeakMengs/ProjectHub/internal/auth"
	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	User       *UserController
	Index      *IndexController
	Auth       *AuthController
	OAuth      *OAuthController
	File       *FileController
	Project    *ProjectController
	Engagement *EngagementController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	googleOAuthConfig := &oauth2.Config{
		ClientID:     app.Config.Auth.GoogleOAuthConfig.ClientID,
		ClientSecret: app.Config.Auth.GoogleOAuthConfig.ClientSecret,
		RedirectURL:  app.Config.Auth.GoogleOAuthConfig.RedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}

	return &Controller{
		User:       &UserController{baseController: bc},
		Index:      &IndexController{baseController: bc},
		Auth:       &AuthController{baseController: bc},
		OAuth:      &OAuthController{baseController: bc, googleOAuthConfig: googleOAuthConfig},
		File:       &FileController{baseController: bc},
		Project:    &ProjectController{baseController: bc},
		Engagement: &EngagementController{baseController: bc},
	}
}

func (b *baseController) getAuthUser(ctx *gin.Context) (*auth.JWTPayload, error) {
	user, exists := ctx.Get(constant.AUTH_USER_CONTEXT_KEY)
	if !exists {
		return nil, fmt.Errorf("%w: user not found in context", errs.ErrUnauthorized)
	}

	if payload, ok := user.(auth.JWTPayload); ok {
		return &payload, nil
	}

	jsonUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	var authUser *auth.JWTPayload
	err = json.Unmarshal(jsonUser, &authUser)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	if authUser == nil || authUser.ID == "" {
		return nil, fmt.Errorf("%w: empty user in context", errs.ErrUnauthorized)
	}

	return authUser, nil
}

// getOptionalAuthUser returns nil for anonymous requests.
func (b *baseController) getOptionalAuthUser(ctx *gin.Context) *auth.JWTPayload {
	user, err := b.getAuthUser(ctx)
	if err != nil {
		return nil
	}
	return user
}

// respondError maps err to its status code. Server side failures are logged.
func (b *baseController) respondError(ctx *gin.Context, message string, err error, data any) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		b.app.Logger.Errorf("%s: %v", message, err)
	} else {
		b.app.Logger.Debugf("%s: %v", message, err)
	}

	var writeErr *errs.WriteError
	if data == nil && errors.As(err, &writeErr) && len(writeErr.Cleanup) > 0 {
		data = gin.H{"warnings": writeErr.Cleanup}
	}

	util.ResponseFailed(ctx, status, message, util.GenerateErrorMessages(err), data)
}
