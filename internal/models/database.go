package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stagegear/inventory/internal/config"
	"github.com/stagegear/inventory/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// TimeLayout is used for every server-generated timestamp. Fixed width keeps
// string ordering equal to chronological ordering.
const TimeLayout = "2006-01-02T15:04:05.000000"

// Now returns the current local time formatted with TimeLayout.
func Now() string {
	return time.Now().Format(TimeLayout)
}

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := Open(dialector, logger.Warn)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

// Open connects with the settings every environment shares. Foreign keys are
// not created: logs and notifications must survive deletion of the rows they
// reference.
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(level),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

func AutoMigrate() error {
	return Migrate(DB)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Equipment{},
		&MaintenanceLog{},
		&Notification{},
		&Session{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates the demo inventory when the equipment table is
// empty, and the two demo accounts when their names are free.
func SeedDefaultData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Equipment{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		items := []Equipment{
			{ID: "1", Name: "Shure SM58", Brand: "Shure", Category: "Microfones", Status: StatusAvailable, PurchaseDate: "2023-01-15"},
			{ID: "2", Name: "Behringer X32", Brand: "Behringer", Category: "Mesas de Som", Status: StatusInUse, PurchaseDate: "2022-05-20"},
			{ID: "3", Name: "Cabo XLR 10m", Brand: "Santo Angelo", Category: "Cabos", Status: StatusMaintenance, PurchaseDate: "2023-08-10"},
			{ID: "4", Name: "Yamaha DBR10", Brand: "Yamaha", Category: "Caixas de Som", Status: StatusAvailable, PurchaseDate: "2021-11-05"},
		}
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}

	accounts := []struct {
		name, password, role string
	}{
		{"Ronaldo", "admin", RoleAdmin},
		{"usuario", "user", RoleUser},
	}
	for _, acc := range accounts {
		var existing User
		err := db.Where("name = ?", acc.name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := utils.HashPassword(acc.password)
		if err != nil {
			return err
		}
		user := User{ID: uuid.NewString(), Name: acc.name, Role: acc.role, PasswordHash: hash}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}

	return nil
}
