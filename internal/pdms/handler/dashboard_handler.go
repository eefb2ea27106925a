package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/service"
)

// DashboardHandler 看板
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary GET /dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, summary)
}

// Analytics GET /dashboard/analytics
func (h *DashboardHandler) Analytics(c *gin.Context) {
	items, err := h.svc.Analytics(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Notifications GET /dashboard/notifications
func (h *DashboardHandler) Notifications(c *gin.Context) {
	items, err := h.svc.Notifications(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// VendorHandler 供应商
type VendorHandler struct {
	svc *service.VendorService
}

func NewVendorHandler(svc *service.VendorService) *VendorHandler {
	return &VendorHandler{svc: svc}
}

// List GET /vendors
func (h *VendorHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Create POST /vendors
func (h *VendorHandler) Create(c *gin.Context) {
	var req service.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	vendor, err := h.svc.Create(c.Request.Context(), req, GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, vendor)
}

// AssistantHandler 问答助手
type AssistantHandler struct {
	svc *service.AssistantService
}

func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// Ask POST /ai/ask
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req service.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	resp, err := h.svc.Ask(c.Request.Context(), req.Question)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, resp)
}
