package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SeakMengs/ProjectHub/internal/auth"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/mailer"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	*baseController
}

const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserAlreadyExists  = "user already exists"
)

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	ProfileURL string `json:"profileURL,omitempty"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		ProfileURL: u.ProfileURL,
	}
}

// setAuthCookie lets browser clients authenticate without reading the token.
func (ac AuthController) setAuthCookie(ctx *gin.Context, token string) {
	cfg := ac.app.Config
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(cfg.Auth.CookieName, token, int(cfg.Auth.TokenTTL.Seconds()), "/", "", cfg.IsProduction(), true)
}

func (ac AuthController) Signup(ctx *gin.Context) {
	type Request struct {
		Email    string `json:"email" form:"email" binding:"required,email"`
		Password string `json:"password" form:"password" binding:"required,strNotEmpty,maxBytes=72"`
		Name     string `json:"name" form:"name" binding:"omitempty,cmax=100"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	hash, err := auth.HashSecret(body.Password)
	if err != nil {
		ac.respondError(ctx, "Failed to hash password", err, nil)
		return
	}

	user, err := ac.app.Repository.User.CheckDupAndCreate(ctx, nil, &model.User{
		Email:    strings.TrimSpace(body.Email),
		Name:     strings.TrimSpace(body.Name),
		Password: &hash,
	})
	if err != nil {
		// An existing account is reported like any other bad signup request.
		if errors.Is(err, errs.ErrConflict) {
			util.ResponseFailed(ctx, http.StatusBadRequest, "User already exists", util.GenerateErrorMessages(errors.New(ErrUserAlreadyExists), "email"), nil)
			return
		}
		ac.respondError(ctx, "Failed to create user", err, nil)
		return
	}

	token, err := ac.app.JWTService.IssueToken(user.ID, user.Email)
	if err != nil {
		ac.respondError(ctx, "Failed to issue token", err, nil)
		return
	}

	ac.sendWelcomeMail(*user)
	ac.setAuthCookie(ctx, token)

	util.ResponseCreated(ctx, gin.H{
		"user":  toUserResponse(user),
		"token": token,
	})
}

func (ac AuthController) sendWelcomeMail(user model.User) {
	if ac.app.Mailer == nil {
		return
	}

	go func() {
		name := user.Name
		if name == "" {
			name = user.Email
		}

		if _, err := ac.app.Mailer.Send(mailer.WELCOME_TEMPLATE, name, user.Email, mailer.NewWelcomeData(name, ac.app.Config.FrontURL)); err != nil {
			ac.app.Logger.Errorf("Failed to send welcome mail to %s: %v", user.Email, err)
		}
	}()
}

func (ac AuthController) Login(ctx *gin.Context) {
	type Request struct {
		Email    string `json:"email" form:"email" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Email and password are required", util.GenerateErrorMessages(err), nil)
		return
	}

	user, err := ac.app.Repository.User.GetByEmail(ctx, nil, body.Email)
	if err != nil && !errs.IsNotFound(err) {
		ac.respondError(ctx, "Failed to get user", err, nil)
		return
	}

	// Social accounts have no password and cannot log in this way.
	if user == nil || !user.HasLocalPassword() || !auth.VerifySecret(body.Password, *user.Password) {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid credentials", util.GenerateErrorMessages(errors.New(ErrInvalidCredentials), "credentials"), nil)
		return
	}

	token, err := ac.app.JWTService.IssueToken(user.ID, user.Email)
	if err != nil {
		ac.respondError(ctx, "Failed to issue token", err, nil)
		return
	}

	ac.setAuthCookie(ctx, token)

	util.ResponseSuccess(ctx, gin.H{
		"user":  toUserResponse(user),
		"token": token,
	})
}

func (ac AuthController) Logout(ctx *gin.Context) {
	cfg := ac.app.Config
	ctx.SetCookie(cfg.Auth.CookieName, "", -1, "/", "", cfg.IsProduction(), true)
	util.ResponseSuccess(ctx, nil)
}

func (ac AuthController) VerifyJwtAccessToken(ctx *gin.Context) {
	token := ctx.Param("token")

	// Keep in mind that verify jwt token does not check database.
	jwtClaims, err := ac.app.JWTService.VerifyToken(token)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "token"), gin.H{
			"tokenValid": false,
		})
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"tokenValid": true,
		"payload":    jwtClaims,
	})
}
