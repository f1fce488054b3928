package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stagegear/inventory/internal/models"
)

func seedNotification(t *testing.T, env *testEnv, n models.Notification) {
	t.Helper()
	if err := env.db.Create(&n).Error; err != nil {
		t.Fatalf("create notification %s: %v", n.ID, err)
	}
}

func TestListForUser_VisibilityAndOrder(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.user(t)
	admin := env.admin(t)

	roleUser, roleAdmin := models.RoleUser, models.RoleAdmin
	rows := []models.Notification{
		{ID: "n1", Message: "to users", Type: "info", Date: "2024-01-02", RecipientRole: &roleUser},
		{ID: "n2", Message: "to admins", Type: "alert", Date: "2024-01-05", RecipientRole: &roleAdmin},
		{ID: "n3", Message: "to usuario", Type: "success", Date: "2024-01-09", RecipientUserID: strPtr(user.UserID)},
		{ID: "n4", Message: "to admin", Type: "success", Date: "2024-01-01", RecipientUserID: strPtr(admin.UserID)},
		{ID: "n5", Message: "nobody", Type: "info", Date: "2024-01-03"},
		{ID: "n6", Message: "someone else", Type: "info", Date: "2024-01-04", RecipientUserID: strPtr("other-1")},
	}
	for _, n := range rows {
		seedNotification(t, env, n)
	}

	tests := []struct {
		name   string
		caller *Identity
		want   []string
	}{
		{"user", user, []string{"n3", "n1"}},
		{"admin", admin, []string{"n2", "n4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.notifications.ListForUser(ctx, tt.caller)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %+v", tt.want, got)
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
			dates := make([]string, len(got))
			for i, n := range got {
				dates[i] = n.Date
			}
			if !sort.SliceIsSorted(dates, func(i, j int) bool { return dates[i] > dates[j] }) {
				t.Errorf("expected descending dates, got %v", dates)
			}
		})
	}

	if _, err := env.notifications.ListForUser(ctx, nil); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous list: got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.user(t)

	roleAdmin := models.RoleAdmin
	seedNotification(t, env, models.Notification{ID: "a1", Message: "admins only", Type: "alert", Date: "2024-01-01", RecipientRole: &roleAdmin})

	// Any authenticated caller may mark any notification.
	if err := env.notifications.MarkRead(ctx, user, "a1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := env.notifications.MarkRead(ctx, user, "a1"); err != nil {
		t.Fatalf("MarkRead twice: %v", err)
	}

	var n models.Notification
	env.db.Where("id = ?", "a1").First(&n)
	if !n.Read {
		t.Error("expected notification to be read")
	}

	if err := env.notifications.MarkRead(ctx, user, "missing"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := env.notifications.MarkRead(ctx, nil, "a1"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestMarkAllReadForUser(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	user := env.user(t)

	roleUser, roleAdmin := models.RoleUser, models.RoleAdmin
	seedNotification(t, env, models.Notification{ID: "u1", Type: "info", Date: "2024-01-01", RecipientRole: &roleUser})
	seedNotification(t, env, models.Notification{ID: "u2", Type: "info", Date: "2024-01-02", RecipientUserID: strPtr(user.UserID)})
	seedNotification(t, env, models.Notification{ID: "a1", Type: "alert", Date: "2024-01-03", RecipientRole: &roleAdmin})

	count, err := env.notifications.MarkAllReadForUser(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows updated, got %d", count)
	}

	var unread []models.Notification
	env.db.Where("read = ?", false).Find(&unread)
	if len(unread) != 1 || unread[0].ID != "a1" {
		t.Errorf("only the admin notification should stay unread, got %+v", unread)
	}
}
