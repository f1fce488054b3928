package models

const (
	StatusAvailable   = "available"
	StatusInUse       = "in_use"
	StatusMaintenance = "maintenance"
)

// Equipment is a tracked physical asset.
//
// Logs are not cascade-deleted with their equipment, so deleting an item
// can leave orphaned maintenance_logs rows.
// TODO: cascade the delete to maintenance_logs in EquipmentService.Delete.
type Equipment struct {
	ID           string           `gorm:"primaryKey;size:50"`
	Name         string           `gorm:"size:100;not null"`
	Brand        string           `gorm:"size:50"`
	Category     string           `gorm:"size:50"`
	Status       string           `gorm:"size:20;default:available"`
	PurchaseDate string           `gorm:"size:20"`
	Logs         []MaintenanceLog `gorm:"foreignKey:EquipmentID"`
}

func (Equipment) TableName() string { return "equipment" }

// MaintenanceLog records a reported problem and, once fixed, when it was resolved.
// Date and ResolvedAt are ISO-8601 strings; string order is date order.
type MaintenanceLog struct {
	ID           string  `gorm:"primaryKey;size:50"`
	EquipmentID  string  `gorm:"index;size:50;not null"`
	Date         string  `gorm:"index;size:30"`
	Description  string  `gorm:"type:text"`
	ReportedBy   string  `gorm:"size:100"`
	ReportedByID *string `gorm:"size:50"` // snapshot; not a live FK so deleted users keep their history
	ResolvedAt   *string `gorm:"size:30"`
}

func (MaintenanceLog) TableName() string { return "maintenance_logs" }

func (l *MaintenanceLog) IsOpen() bool { return l.ResolvedAt == nil }
