package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/service"
)

// MaintenanceHandler 设备维护
type MaintenanceHandler struct {
	svc *service.MaintenanceService
}

func NewMaintenanceHandler(svc *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc}
}

// Assets GET /maintenance/assets
func (h *MaintenanceHandler) Assets(c *gin.Context) {
	items, err := h.svc.Assets(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Register POST /maintenance/register
func (h *MaintenanceHandler) Register(c *gin.Context) {
	var req service.RegisterEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	eq, err := h.svc.Register(c.Request.Context(), req, GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, gin.H{"message": "Equipment registered", "id": eq.ID})
}

// RiskReport GET /maintenance/risk-report
func (h *MaintenanceHandler) RiskReport(c *gin.Context) {
	report, err := h.svc.RiskReport(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, report)
}

// RecordReading POST /maintenance/assets/:id/readings
func (h *MaintenanceHandler) RecordReading(c *gin.Context) {
	var req service.ReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	rec, err := h.svc.RecordReading(c.Request.Context(), c.Param("id"), req, GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, rec)
}

// Records GET /maintenance/assets/:id/records
func (h *MaintenanceHandler) Records(c *gin.Context) {
	items, err := h.svc.Records(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// PredictionHandler 质量预测
type PredictionHandler struct {
	svc *service.PredictionService
}

func NewPredictionHandler(svc *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{svc: svc}
}

// PredictQuality POST /ml/predict-quality
func (h *PredictionHandler) PredictQuality(c *gin.Context) {
	var req service.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	result, err := h.svc.Predict(req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, result)
}
