package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stagegear/inventory/internal/models"
	"github.com/stagegear/inventory/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EquipmentService owns equipment rows, their status and their maintenance logs.
type EquipmentService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewEquipmentService(db *gorm.DB, notifications *NotificationService) *EquipmentService {
	return &EquipmentService{db: db, notifications: notifications}
}

type EquipmentView struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Brand        string               `json:"brand"`
	Category     string               `json:"category"`
	Status       string               `json:"status"`
	PurchaseDate string               `json:"purchaseDate"`
	Logs         []MaintenanceLogView `json:"logs"`
}

type MaintenanceLogView struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	ReportedBy   string  `json:"reportedBy"`
	ReportedByID *string `json:"reportedById"`
	ResolvedAt   *string `json:"resolvedAt"`
}

func toEquipmentView(e *models.Equipment) *EquipmentView {
	logs := make([]MaintenanceLogView, 0, len(e.Logs))
	for _, l := range e.Logs {
		logs = append(logs, MaintenanceLogView{
			ID:           l.ID,
			Date:         l.Date,
			Description:  l.Description,
			ReportedBy:   l.ReportedBy,
			ReportedByID: l.ReportedByID,
			ResolvedAt:   l.ResolvedAt,
		})
	}
	return &EquipmentView{
		ID:           e.ID,
		Name:         e.Name,
		Brand:        e.Brand,
		Category:     e.Category,
		Status:       e.Status,
		PurchaseDate: e.PurchaseDate,
		Logs:         logs,
	}
}

type CreateEquipmentRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	PurchaseDate string `json:"purchaseDate"`
}

// UpdateEquipmentRequest carries the fields editable through Update; nil
// means unchanged. Status changes go through SetStatus.
type UpdateEquipmentRequest struct {
	Name         *string `json:"name"`
	Brand        *string `json:"brand"`
	Category     *string `json:"category"`
	PurchaseDate *string `json:"purchaseDate"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type ReportProblemRequest struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	ReportedBy   string  `json:"reportedBy"`
	ReportedByID *string `json:"reportedById"`

	// reporterIDSent is set when the body carried reportedById, even as null.
	reporterIDSent bool
}

func (r *ReportProblemRequest) UnmarshalJSON(data []byte) error {
	type plain ReportProblemRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, r.reporterIDSent = keys["reportedById"]
	return nil
}

func withLogs(db *gorm.DB) *gorm.DB {
	return db.Preload("Logs", func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "date"}},
			{Column: clause.Column{Name: "id"}},
		}})
	})
}

// List returns every item with its logs. No authentication is required.
func (s *EquipmentService) List(ctx context.Context) ([]*EquipmentView, error) {
	var items []models.Equipment
	if err := s.db.WithContext(ctx).Scopes(withLogs).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	views := make([]*EquipmentView, 0, len(items))
	for i := range items {
		views = append(views, toEquipmentView(&items[i]))
	}
	return views, nil
}

// Get returns one item with its logs.
func (s *EquipmentService) Get(ctx context.Context, id string) (*EquipmentView, error) {
	item, err := findEquipment(s.db.WithContext(ctx).Scopes(withLogs), id)
	if err != nil {
		return nil, err
	}
	return toEquipmentView(item), nil
}

func findEquipment(db *gorm.DB, id string) (*models.Equipment, error) {
	var item models.Equipment
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *EquipmentService) Create(ctx context.Context, caller *Identity, req *CreateEquipmentRequest) (*EquipmentView, error) {
	if err := RequireAuth(caller); err != nil {
		return nil, err
	}

	required := []struct{ field, value string }{
		{"name", req.Name},
		{"brand", req.Brand},
		{"category", req.Category},
		{"status", req.Status},
		{"purchaseDate", req.PurchaseDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, validationError("Missing field: %s", r.field)
		}
	}

	item := models.Equipment{
		ID:           req.ID,
		Name:         req.Name,
		Brand:        req.Brand,
		Category:     req.Category,
		Status:       req.Status,
		PurchaseDate: req.PurchaseDate,
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	db := s.db.WithContext(ctx)
	if _, err := findEquipment(db, item.ID); err == nil {
		return nil, validationError("Equipment %s already exists", item.ID)
	} else if !errors.Is(err, ErrEquipmentNotFound) {
		return nil, err
	}

	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}

	logger.Info().Str("equipment_id", item.ID).Str("by", caller.UserID).Msg("equipment created")
	return toEquipmentView(&item), nil
}

func (s *EquipmentService) Update(ctx context.Context, caller *Identity, id string, req *UpdateEquipmentRequest) (*EquipmentView, error) {
	if err := RequireAuth(caller); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findEquipment(tx, id)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Brand != nil {
			updates["brand"] = *req.Brand
		}
		if req.Category != nil {
			updates["category"] = *req.Category
		}
		if req.PurchaseDate != nil {
			updates["purchase_date"] = *req.PurchaseDate
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(item).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes the item. Admin only.
//
// Maintenance logs and notifications pointing at the item are left in place.
func (s *EquipmentService) Delete(ctx context.Context, caller *Identity, id string) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Equipment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEquipmentNotFound
	}

	logger.Info().Str("equipment_id", id).Str("by", caller.UserID).Msg("equipment deleted")
	return nil
}

// SetStatus overwrites the status with whatever value is given.
//
// No transition rules apply: an item can move to maintenance without a log
// or leave it with its log still open. A status state machine would belong
// here if the product ever needs one.
func (s *EquipmentService) SetStatus(ctx context.Context, caller *Identity, id string, req *SetStatusRequest) (*EquipmentView, error) {
	if err := RequireAuth(caller); err != nil {
		return nil, err
	}
	if req.Status == "" {
		return nil, validationError("Missing field: status")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findEquipment(tx, id)
		if err != nil {
			return err
		}
		return tx.Model(item).Update("status", req.Status).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// ReportProblem opens a maintenance log, moves the item to maintenance and
// alerts every admin, all in one transaction. Reporter fields default to
// the caller when the request leaves them out; an explicit null reportedById
// is stored as null and the reporter gets no success notification later.
func (s *EquipmentService) ReportProblem(ctx context.Context, caller *Identity, id string, req *ReportProblemRequest) (*EquipmentView, error) {
	if err := RequireAuth(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, validationError("Missing field: description")
	}

	entry := models.MaintenanceLog{
		ID:           req.ID,
		EquipmentID:  id,
		Date:         req.Date,
		Description:  req.Description,
		ReportedBy:   req.ReportedBy,
		ReportedByID: req.ReportedByID,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Date == "" {
		entry.Date = models.Now()
	}
	if entry.ReportedBy == "" {
		entry.ReportedBy = caller.Name
	}
	switch {
	case !req.reporterIDSent && entry.ReportedByID == nil:
		callerID := caller.UserID
		entry.ReportedByID = &callerID
	case entry.ReportedByID != nil && *entry.ReportedByID == "":
		entry.ReportedByID = nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findEquipment(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create maintenance log: %w", err)
		}
		if err := tx.Model(item).Update("status", models.StatusMaintenance).Error; err != nil {
			return err
		}

		message := fmt.Sprintf("%s reportou um problema em: %s", entry.ReportedBy, item.Name)
		_, err = s.notifications.NotifyRole(tx, models.RoleAdmin, models.NotificationAlert, message, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("equipment_id", id).Str("log_id", entry.ID).Str("by", caller.UserID).Msg("problem reported")
	return s.Get(ctx, id)
}

// ResolveProblem makes the item available again and resolves its most
// recent log by date. The reporter of that log, when known, gets a success
// notification. An item without logs only has its status changed.
func (s *EquipmentService) ResolveProblem(ctx context.Context, caller *Identity, id string) (*EquipmentView, error) {
	if err := RequireAuth(caller); err != nil {
		return nil, err
	}

	var resolvedLog string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findEquipment(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(item).Update("status", models.StatusAvailable).Error; err != nil {
			return err
		}

		// Take, not First: First would put the primary key ahead of the date.
		var last models.MaintenanceLog
		err = tx.Where("equipment_id = ?", id).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).
			Take(&last).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !last.IsOpen() {
			logger.Warn().Str("equipment_id", id).Str("log_id", last.ID).Msg("latest log already resolved, stamping it again")
		}

		if err := tx.Model(&last).Update("resolved_at", models.Now()).Error; err != nil {
			return err
		}
		resolvedLog = last.ID

		if last.ReportedByID == nil || *last.ReportedByID == "" {
			return nil
		}
		message := fmt.Sprintf("O equipamento %s foi reparado e está disponível.", item.Name)
		_, err = s.notifications.NotifyUser(tx, *last.ReportedByID, models.NotificationSuccess, message, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("equipment_id", id).Str("log_id", resolvedLog).Str("by", caller.UserID).Msg("problem resolved")
	return s.Get(ctx, id)
}
