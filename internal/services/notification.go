package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stagegear/inventory/internal/models"
	"github.com/stagegear/inventory/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationService produces notifications for equipment transitions and
// serves each user's inbox.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

type NotificationView struct {
	ID                 string  `json:"id"`
	Message            string  `json:"message"`
	Type               string  `json:"type"`
	Date               string  `json:"date"`
	Read               bool    `json:"read"`
	RecipientRole      *string `json:"recipientRole"`
	RecipientUserID    *string `json:"recipientUserId"`
	RelatedEquipmentID *string `json:"relatedEquipmentId"`
}

func toNotificationView(n *models.Notification) NotificationView {
	return NotificationView{
		ID:                 n.ID,
		Message:            n.Message,
		Type:               n.Type,
		Date:               n.Date,
		Read:               n.Read,
		RecipientRole:      n.RecipientRole,
		RecipientUserID:    n.RecipientUserID,
		RelatedEquipmentID: n.RelatedEquipmentID,
	}
}

// NotifyRole broadcasts to every user holding role. tx is the caller's
// transaction so the notification commits with the transition that caused it.
func (s *NotificationService) NotifyRole(tx *gorm.DB, role, kind, message, equipmentID string) (*models.Notification, error) {
	n := newNotification(kind, message, equipmentID)
	n.RecipientRole = &role
	return n, s.create(tx, n)
}

// NotifyUser sends to a single user.
func (s *NotificationService) NotifyUser(tx *gorm.DB, userID, kind, message, equipmentID string) (*models.Notification, error) {
	n := newNotification(kind, message, equipmentID)
	n.RecipientUserID = &userID
	return n, s.create(tx, n)
}

func newNotification(kind, message, equipmentID string) *models.Notification {
	n := &models.Notification{
		ID:      uuid.NewString(),
		Message: message,
		Type:    kind,
		Date:    models.Now(),
	}
	if equipmentID != "" {
		n.RelatedEquipmentID = &equipmentID
	}
	return n
}

func (s *NotificationService) create(tx *gorm.DB, n *models.Notification) error {
	if tx == nil {
		tx = s.db
	}
	if err := tx.Create(n).Error; err != nil {
		return err
	}
	logger.Debug().Str("notification_id", n.ID).Str("type", n.Type).Msg("notification created")
	return nil
}

// visibleTo scopes a query to the notifications addressed to the caller
// directly or to the caller's role.
func visibleTo(caller *Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipient_user_id = ? OR recipient_role = ?", caller.UserID, caller.Role)
	}
}

// ListForUser returns the caller's inbox, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, caller *Identity) ([]NotificationView, error) {
	if err := RequireAuth(caller); err != nil {
		return nil, err
	}

	var rows []models.Notification
	if err := s.db.WithContext(ctx).
		Scopes(visibleTo(caller)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(rows))
	for i := range rows {
		views = append(views, toNotificationView(&rows[i]))
	}
	return views, nil
}

// MarkRead flags one notification as read.
//
// There is no ownership check: any authenticated caller may mark any
// notification, including ones outside their inbox. Restricting this to
// visibleTo(caller) is the natural hardening step.
func (s *NotificationService) MarkRead(ctx context.Context, caller *Identity, id string) error {
	if err := RequireAuth(caller); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n models.Notification
		if err := tx.Where("id = ?", id).First(&n).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotificationNotFound
			}
			return err
		}
		return tx.Model(&n).Update("read", true).Error
	})
}

// MarkAllReadForUser flags every notification in the caller's inbox as read
// and returns how many rows were touched.
func (s *NotificationService) MarkAllReadForUser(ctx context.Context, caller *Identity) (int64, error) {
	if err := RequireAuth(caller); err != nil {
		return 0, err
	}

	result := s.db.WithContext(ctx).Model(&models.Notification{}).Scopes(visibleTo(caller)).Update("read", true)
	return result.RowsAffected, result.Error
}
