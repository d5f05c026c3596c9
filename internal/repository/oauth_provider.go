package repository

import (
	"context"

	"github.com/SeakMengs/ProjectHub/internal/constant"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/model"
	"gorm.io/gorm"
)

type OAuthProviderRepository struct {
	*baseRepository
	user *UserRepository
}

// Create new oauth or update existing oauth provider accessToken by provider user id
func (opr OAuthProviderRepository) CreateOrUpdateByProviderUserId(ctx context.Context, tx *gorm.DB, newOAuthProvider model.OAuthProvider) error {
	opr.logger.Debugf("Create or update OAuth provider %s for user %s \n", newOAuthProvider.ProviderType, newOAuthProvider.UserID)

	db := opr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	// Assign mean it will create or update regardless of whether record is found or not
	// It check based on where condition
	if err := db.WithContext(ctx).Model(&model.OAuthProvider{}).Where(&model.OAuthProvider{
		ProviderType:   newOAuthProvider.ProviderType,
		ProviderUserId: newOAuthProvider.ProviderUserId,
	}).Assign(model.OAuthProvider{
		ProviderType:   newOAuthProvider.ProviderType,
		ProviderUserId: newOAuthProvider.ProviderUserId,
		AccessToken:    newOAuthProvider.AccessToken,
		RefreshToken:   newOAuthProvider.RefreshToken,
		UserID:         newOAuthProvider.UserID,
	}).FirstOrCreate(&newOAuthProvider).Error; err != nil {
		return err
	}

	return nil
}

type ExternalIdentity struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	ProfileURL     string
	AccessToken    string
	RefreshToken   string
}

// FindOrCreateUser links an external identity to a user, creating a user
// without a local password when the email is unknown.
func (opr OAuthProviderRepository) FindOrCreateUser(ctx context.Context, tx *gorm.DB, identity ExternalIdentity) (*model.User, error) {
	opr.logger.Debugf("Find or create user for %s identity %s \n", identity.Provider, identity.ProviderUserID)

	var user *model.User
	db := opr.getDB(tx)
	err := opr.withTx(db, func(tx *gorm.DB) error {
		existing, err := opr.user.GetByEmail(ctx, tx, identity.Email)
		if err != nil && !errs.IsNotFound(err) {
			return err
		}

		if existing == nil {
			existing, err = opr.user.Create(ctx, tx, &model.User{
				Email:      identity.Email,
				Name:       identity.Name,
				ProfileURL: identity.ProfileURL,
			})
			if err != nil {
				return err
			}
		}
		user = existing

		return opr.CreateOrUpdateByProviderUserId(ctx, tx, model.OAuthProvider{
			ProviderType:   identity.Provider,
			ProviderUserId: identity.ProviderUserID,
			AccessToken:    identity.AccessToken,
			RefreshToken:   identity.RefreshToken,
			UserID:         existing.ID,
		})
	})

	return user, err
}
