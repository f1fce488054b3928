package models

const (
	NotificationAlert   = "alert"
	NotificationSuccess = "success"
	NotificationInfo    = "info"
)

// Notification is routed either to every user of RecipientRole or to
// RecipientUserID alone.
type Notification struct {
	ID                 string  `gorm:"primaryKey;size:50"`
	Message            string  `gorm:"size:200"`
	Type               string  `gorm:"size:20"`
	Date               string  `gorm:"index;size:30"`
	Read               bool    `gorm:"default:false"`
	RecipientRole      *string `gorm:"index;size:20"`
	RecipientUserID    *string `gorm:"index;size:50"`
	RelatedEquipmentID *string `gorm:"size:50"`
}

func (Notification) TableName() string { return "notifications" }
