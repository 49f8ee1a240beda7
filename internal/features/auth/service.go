package auth

import (
	"context"
	"errors"

	common_models "github.com/AzizRahmanYaad/cbs-dashboard/internal/common/models"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/audit"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/user"
	"github.com/AzizRahmanYaad/cbs-dashboard/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenPair is the issued access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenPair, *user.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type AuthServiceImpl struct {
	UserRepo     user.UserRepository
	AuditService audit.AuditService
}

func NewAuthService(userRepo user.UserRepository, auditService audit.AuditService) AuthService {
	return &AuthServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*TokenPair, *user.User, error) {
	usr, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !usr.Active {
		return nil, nil, errors.New("account inactive")
	}

	pair, err := s.issueTokens(usr)
	if err != nil {
		return nil, nil, err
	}

	changes := map[string]common_models.Change{
		"login": {New: usr.Username},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionLogin, "auth", usr.ID.Hex(), changes)

	return pair, usr, nil
}

func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, ErrInvalidCredentials
	}

	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.UserRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, errors.New("account inactive")
	}

	return s.issueTokens(u)
}

func (s *AuthServiceImpl) issueTokens(u *user.User) (*TokenPair, error) {
	access, err := utils.GenerateToken(u.ID, u.Roles)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
