package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meridianpsych/clinic-api/internal/config"
	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
	"github.com/meridianpsych/clinic-api/pkg/security"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Service issues and validates JWTs for the admin console. Admin-only
// endpoints additionally check the caller's email against a configured
// allow-list.
type Service struct {
	users         UserStore
	hasher        security.PasswordHasher
	secret        []byte
	expiry        time.Duration
	allowedAdmins map[string]bool
	logger        *logger.Logger
}

func NewService(users UserStore, hasher security.PasswordHasher, jwtCfg config.JWTConfig, adminCfg config.AdminConfig, l *logger.Logger) *Service {
	allowed := make(map[string]bool, len(adminCfg.AllowedEmails))
	for _, email := range adminCfg.AllowedEmails {
		allowed[strings.ToLower(email)] = true
	}
	expiry := time.Duration(jwtCfg.ExpiryHours) * time.Hour
	if expiry == 0 {
		expiry = 12 * time.Hour
	}
	return &Service{
		users:         users,
		hasher:        hasher,
		secret:        []byte(jwtCfg.Secret),
		expiry:        expiry,
		allowedAdmins: allowed,
		logger:        l,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, errors.Unauthorized(err)
	}
	if !user.IsActive {
		return nil, errors.Unauthorized(fmt.Errorf("user is disabled"))
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, errors.Unauthorized(err)
	}

	now := time.Now()
	claims := model.TokenClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			Subject:   user.ID.String(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &model.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.expiry.Seconds()),
		User:      user,
	}, nil
}

// ValidateToken parses and verifies a JWT, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*model.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Unauthorized(err)
	}
	claims, ok := token.Claims.(*model.TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.Unauthorized(fmt.Errorf("invalid token claims"))
	}
	return claims, nil
}

// IsAdmin reports whether the caller may use admin-only endpoints:
// an admin role plus membership in the configured allow-list.
func (s *Service) IsAdmin(claims *model.TokenClaims) bool {
	return claims.Role == model.UserRoleAdmin && s.allowedAdmins[strings.ToLower(claims.Email)]
}
