package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/repository"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

type OAuthController struct {
	*baseController
	googleOAuthConfig *oauth2.Config
}

type GoogleUser struct {
	Email         string `json:"email"`
	GivenName     string `json:"given_name"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	VerifiedEmail bool   `json:"verified_email"`
	AccessToken   string `json:"-"`
	RefreshToken  string `json:"-"`
}

const oauthStateMaxAge = 10 * 60

func (oc OAuthController) ContinueWithGoogle(ctx *gin.Context) {
	oc.app.Logger.Debug("OAuth: Google logic")

	state, err := util.GenerateNChar(16)
	if err != nil {
		oc.respondError(ctx, "Failed to generate oauth state", err, nil)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(constant.OAUTH_STATE_COOKIE, state, oauthStateMaxAge, "/", "", oc.app.Config.IsProduction(), true)

	url := oc.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)

	oc.app.Logger.Debugf("OAuth: Google, Redirect to: %s", url)
	ctx.Redirect(http.StatusTemporaryRedirect, url)
}

func (oc OAuthController) getGoogleUserInfo(ctx context.Context, code string) (*GoogleUser, error) {
	oc.app.Logger.Debug("OAuth: Google, Get user info logic")

	// Exchange the authorization code for an access token
	token, err := oc.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		oc.app.Logger.Debug("OAuth: Google, Error: Failed to exchange token")
		return nil, err
	}

	// Use the access token to fetch user info
	client := oc.googleOAuthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		oc.app.Logger.Debug("OAuth: Google, Error: Failed to fetch user info")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info returned status %d", resp.StatusCode)
	}

	var userInfo GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		oc.app.Logger.Debug("OAuth: Google, Error: Failed to decode user info")
		return nil, err
	}
	userInfo.AccessToken = token.AccessToken
	userInfo.RefreshToken = token.RefreshToken

	return &userInfo, nil
}

func (oc OAuthController) ContinueWithGoogleCallback(ctx *gin.Context) {
	oc.app.Logger.Debug("OAuth: Google callback logic")

	state, err := ctx.Cookie(constant.OAUTH_STATE_COOKIE)
	if err != nil || state == "" || state != ctx.Query("state") {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid oauth state", util.GenerateErrorMessages(errors.New("oauth state mismatch"), "state"), nil)
		return
	}
	ctx.SetCookie(constant.OAUTH_STATE_COOKIE, "", -1, "/", "", oc.app.Config.IsProduction(), true)

	userInfo, err := oc.getGoogleUserInfo(ctx, ctx.Query("code"))
	if err != nil {
		oc.respondError(ctx, "Failed to get google user info", err, nil)
		return
	}

	if userInfo.Email == "" || !userInfo.VerifiedEmail {
		oc.respondError(ctx, "Google account email is not verified", fmt.Errorf("%w: unverified google email", errs.ErrUnauthorized), nil)
		return
	}

	// New users are created without a local password.
	user, err := oc.app.Repository.OAuthProvider.FindOrCreateUser(ctx, nil, repository.ExternalIdentity{
		Provider:       constant.OAUTH_PROVIDER_GOOGLE,
		ProviderUserID: userInfo.ID,
		Email:          userInfo.Email,
		Name:           userInfo.Name,
		ProfileURL:     userInfo.Picture,
		AccessToken:    userInfo.AccessToken,
		RefreshToken:   userInfo.RefreshToken,
	})
	if err != nil {
		oc.respondError(ctx, "Failed to sign in with google", err, nil)
		return
	}

	token, err := oc.app.JWTService.IssueToken(user.ID, user.Email)
	if err != nil {
		oc.respondError(ctx, "Failed to issue token", err, nil)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(oc.app.Config.Auth.CookieName, token, int(oc.app.Config.Auth.TokenTTL.Seconds()), "/", "", oc.app.Config.IsProduction(), true)

	util.ResponseSuccess(ctx, gin.H{
		"user":  toUserResponse(user),
		"token": token,
	})
}
