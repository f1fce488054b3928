package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/stagegear/inventory/internal/models"
	"github.com/stagegear/inventory/internal/utils"
	"github.com/stagegear/inventory/pkg/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// UserService is the admin-only account management surface.
type UserService struct {
	db       *gorm.DB
	sessions SessionStore
}

func NewUserService(db *gorm.DB, sessions SessionStore) *UserService {
	return &UserService{db: db, sessions: sessions}
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *UserService) List(ctx context.Context, caller *Identity) ([]*UserView, error) {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	views := make([]*UserView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}
	return views, nil
}

// Create adds an account. The id is derived from the username and the
// stored name is the username capitalized.
func (s *UserService) Create(ctx context.Context, caller *Identity, req *CreateUserRequest) (*UserView, error) {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if req.Username == "" || req.Password == "" {
		return nil, validationError("Missing username or password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, validationError("Invalid role, must be 'admin' or 'user'")
	}

	user := models.User{
		ID:   req.Username + "-1",
		Name: capitalize(req.Username),
		Role: role,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("id = ? OR name = ?", user.ID, user.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserExists
		}

		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", user.ID).Str("role", user.Role).Str("by", caller.UserID).Msg("user created")
	return toUserView(&user), nil
}

// Delete removes an account and revokes its sessions. Admins cannot delete
// themselves.
func (s *UserService) Delete(ctx context.Context, caller *Identity, id string) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.ID == caller.UserID {
		return ErrSelfDeletion
	}

	if err := s.db.WithContext(ctx).Delete(&user).Error; err != nil {
		return err
	}
	if err := s.sessions.RevokeUser(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to revoke sessions of deleted user")
	}

	logger.Info().Str("user_id", user.ID).Str("by", caller.UserID).Msg("user deleted")
	return nil
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	lower := cases.Lower(language.Und).String(s)
	r, size := utf8.DecodeRuneInString(lower)
	if r == utf8.RuneError {
		return lower
	}
	return cases.Upper(language.Und).String(string(r)) + lower[size:]
}
