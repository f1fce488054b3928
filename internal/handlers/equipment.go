package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stagegear/inventory/internal/middleware"
	"github.com/stagegear/inventory/internal/services"
	"github.com/stagegear/inventory/pkg/response"
)

type EquipmentHandler struct {
	equipmentService *services.EquipmentService
}

func NewEquipmentHandler(equipmentService *services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

// List GET /api/equipment
func (h *EquipmentHandler) List(c *gin.Context) {
	items, err := h.equipmentService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// Create POST /api/equipment
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req services.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.equipmentService.Create(c.Request.Context(), middleware.GetIdentity(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// Update PUT /api/equipment/:id
func (h *EquipmentHandler) Update(c *gin.Context) {
	var req services.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.equipmentService.Update(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// Delete DELETE /api/equipment/:id
func (h *EquipmentHandler) Delete(c *gin.Context) {
	if err := h.equipmentService.Delete(c.Request.Context(), middleware.GetIdentity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// SetStatus PUT /api/equipment/:id/status
func (h *EquipmentHandler) SetStatus(c *gin.Context) {
	var req services.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.equipmentService.SetStatus(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// ReportProblem POST /api/equipment/:id/logs
func (h *EquipmentHandler) ReportProblem(c *gin.Context) {
	var req services.ReportProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.equipmentService.ReportProblem(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// ResolveProblem POST /api/equipment/:id/resolve
func (h *EquipmentHandler) ResolveProblem(c *gin.Context) {
	item, err := h.equipmentService.ResolveProblem(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}
