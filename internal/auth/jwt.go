package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type JWT struct {
	logger    *zap.SugaredLogger
	jwtSecret string
	ttl       time.Duration
	now       func() time.Time
}

type JWTInterface interface {
	IssueToken(userID, email string) (string, error)
	VerifyToken(token string) (*JWTClaims, error)
}

func NewJwt(cfg config.AuthConfig, logger *zap.SugaredLogger) *JWT {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &JWT{
		jwtSecret: cfg.JWT_SECRET,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

type JWTPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type JWTClaims struct {
	User JWTPayload `json:"user"`
	IAT  int64      `json:"iat"`
	EXP  int64      `json:"exp"`
}

func (j JWT) IssueToken(userID, email string) (string, error) {
	if j.jwtSecret == "" {
		return "", errors.New("jwt secret is not configured")
	}

	j.logger.Debugf("Issue token for user id: %s", userID)

	issuedAt := j.now()
	claims := jwt.MapClaims{
		"user": JWTPayload{ID: userID, Email: email},
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.jwtSecret))
}

// VerifyToken fails with an error matching errs.ErrUnauthorized.
func (j JWT) VerifyToken(token string) (*JWTClaims, error) {
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		j.logger.Debugf("Failed to verify jwt token. Error: %v", err)
		return nil, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}

	if !parsedToken.Valid {
		j.logger.Debug("Jwt token is not valid")
		return nil, fmt.Errorf("%w: jwt token is not valid", errs.ErrUnauthorized)
	}

	user, ok := claims["user"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: user field is missing or malformed", errs.ErrUnauthorized)
	}

	id, _ := user["id"].(string)
	email, _ := user["email"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: user id is missing", errs.ErrUnauthorized)
	}

	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	return &JWTClaims{
		User: JWTPayload{
			ID:    id,
			Email: email,
		},
		IAT: int64(iat),
		EXP: int64(exp),
	}, nil
}
