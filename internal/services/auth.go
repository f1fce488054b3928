package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stagegear/inventory/internal/config"
	"github.com/stagegear/inventory/internal/models"
	"github.com/stagegear/inventory/internal/utils"
	"github.com/stagegear/inventory/pkg/logger"
	"gorm.io/gorm"
)

type AuthService struct {
	db       *gorm.DB
	sessions SessionStore
	cfg      *config.SessionConfig
}

func NewAuthService(db *gorm.DB, sessions SessionStore, cfg *config.SessionConfig) *AuthService {
	return &AuthService{
		db:       db,
		sessions: sessions,
		cfg:      cfg,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	User      *UserView
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// UserView is the public shape of a user; the password hash never leaves the service.
type UserView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func toUserView(u *models.User) *UserView {
	return &UserView{ID: u.ID, Name: u.Name, Role: u.Role}
}

// Login checks the credentials against the user named req.Username and opens a
// session for it. No session is created when the check fails.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("name = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.ExpireHour) * time.Hour)
	session := &models.Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		ExpiresAt:   expiresAt,
		CreatedByIP: clientIP,
		UserAgent:   truncate(userAgent, 255),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(session.ID, user.ID, user.Name, user.Role, s.cfg.ExpireHour)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", user.ID).Str("ip", clientIP).Msg("user logged in")

	return &LoginResult{
		User:      toUserView(&user),
		Token:     token,
		SessionID: session.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the caller's session.
func (s *AuthService) Logout(ctx context.Context, caller *Identity) error {
	if err := RequireAuth(caller); err != nil {
		return err
	}
	return s.sessions.Revoke(ctx, caller.SessionID)
}

// Resolve turns a session token into the caller identity. The session must be
// live and its user must still exist; role and name come from the user row,
// not from the token.
func (s *AuthService) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !session.Active(time.Now()) || session.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", session.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return &Identity{
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		SessionID: session.ID,
	}, nil
}

// CurrentUser returns the caller's public view.
func (s *AuthService) CurrentUser(caller *Identity) (*UserView, error) {
	if err := RequireAuth(caller); err != nil {
		return nil, err
	}
	return &UserView{ID: caller.UserID, Name: caller.Name, Role: caller.Role}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
