package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stagegear/inventory/internal/config"
	"github.com/stagegear/inventory/internal/models"
	"github.com/stagegear/inventory/internal/utils"
	"github.com/stagegear/inventory/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db            *gorm.DB
	sessions      SessionStore
	auth          *AuthService
	equipment     *EquipmentService
	notifications *NotificationService
	users         *UserService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), logger.Silent)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// setupEnv builds every service over a seeded in-memory database.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.SetJWTSecret("test-secret")

	db := setupTestDB(t)
	if err := models.SeedDefaultData(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sessions := NewDBSessionStore(db)
	notifications := NewNotificationService(db)
	return &testEnv{
		db:            db,
		sessions:      sessions,
		auth:          NewAuthService(db, sessions, &config.SessionConfig{ExpireHour: 1}),
		equipment:     NewEquipmentService(db, notifications),
		notifications: notifications,
		users:         NewUserService(db, sessions),
	}
}

// login returns the identity behind a fresh session for username.
func (e *testEnv) login(t *testing.T, username, password string) *Identity {
	t.Helper()
	result, err := e.auth.Login(context.Background(), &LoginRequest{Username: username, Password: password}, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	identity, err := e.auth.Resolve(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("resolve %s: %v", username, err)
	}
	return identity
}

func (e *testEnv) admin(t *testing.T) *Identity { return e.login(t, "Ronaldo", "admin") }

func (e *testEnv) user(t *testing.T) *Identity { return e.login(t, "usuario", "user") }

func statusOf(err error) int {
	if err == nil {
		return 0
	}
	return response.StatusOf(err)
}
