package user

import (
	"context"
	"errors"
	"time"

	common_models "github.com/AzizRahmanYaad/cbs-dashboard/internal/common/models"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	ListUsers(ctx context.Context, page, limit int64) ([]User, int64, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*User, error)
	CreateUser(ctx context.Context, username, fullName, email, password string, roles []string) (*User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, updates UserUpdates) (*User, error)
	ChangePassword(ctx context.Context, id primitive.ObjectID, newPassword string) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

// UserUpdates carries the optional fields of an admin user edit.
type UserUpdates struct {
	FullName *string
	Email    *string
	Roles    []string
	Active   *bool
}

type UserServiceImpl struct {
	UserRepo     UserRepository
	AuditService audit.AuditService
}

func NewUserService(userRepo UserRepository, auditService audit.AuditService) UserService {
	return &UserServiceImpl{
		UserRepo:     userRepo,
		AuditService: auditService,
	}
}

func validRoles(roles []string) bool {
	for _, role := range roles {
		found := false
		for _, known := range AvailableRoles {
			if role == known {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, page, limit int64) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.UserRepo.List(ctx, limit, (page-1)*limit)
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id primitive.ObjectID) (*User, error) {
	u, err := s.UserRepo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, username, fullName, email, password string, roles []string) (*User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}
	if !validRoles(roles) {
		return nil, errors.New("unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.UserRepo.Create(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.New("username already taken")
		}
		return nil, err
	}

	changes := map[string]common_models.Change{
		"username": {New: u.Username},
		"roles":    {New: u.Roles},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "users", u.ID.Hex(), changes)

	return u, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id primitive.ObjectID, updates UserUpdates) (*User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]common_models.Change)

	if updates.FullName != nil && *updates.FullName != u.FullName {
		changes["full_name"] = common_models.Change{Old: u.FullName, New: *updates.FullName}
		u.FullName = *updates.FullName
	}
	if updates.Email != nil && *updates.Email != u.Email {
		changes["email"] = common_models.Change{Old: u.Email, New: *updates.Email}
		u.Email = *updates.Email
	}
	if updates.Roles != nil {
		if !validRoles(updates.Roles) {
			return nil, errors.New("unknown role")
		}
		changes["roles"] = common_models.Change{Old: u.Roles, New: updates.Roles}
		u.Roles = updates.Roles
	}
	if updates.Active != nil && *updates.Active != u.Active {
		changes["active"] = common_models.Change{Old: u.Active, New: *updates.Active}
		u.Active = *updates.Active
	}

	if len(changes) == 0 {
		return u, nil
	}

	u.UpdatedAt = time.Now()
	if err := s.UserRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "users", id.Hex(), changes)
	return u, nil
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, id primitive.ObjectID, newPassword string) error {
	if newPassword == "" {
		return errors.New("password is required")
	}

	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(ctx, u); err != nil {
		return err
	}

	changes := map[string]common_models.Change{
		"password": {New: "changed"},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "users", id.Hex(), changes)
	return nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return err
	}

	changes := map[string]common_models.Change{
		"deleted":  {Old: false, New: true},
		"username": {Old: u.Username, New: ""},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "users", id.Hex(), changes)
	return nil
}
