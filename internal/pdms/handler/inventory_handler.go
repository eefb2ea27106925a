package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/service"
)

// InventoryHandler 成品库存与发货
type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// FinishedGoods GET /inventory/finished-goods
func (h *InventoryHandler) FinishedGoods(c *gin.Context) {
	items, err := h.svc.FinishedGoods(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Summary GET /inventory/summary
func (h *InventoryHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, summary)
}

// MoveToDispatch POST /inventory/move-to-dispatch/:batch_no
func (h *InventoryHandler) MoveToDispatch(c *gin.Context) {
	inv, err := h.svc.MoveToDispatchArea(c.Request.Context(), c.Param("batch_no"), GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"message":   fmt.Sprintf("Batch %s moved to Dispatch Area for staging", inv.BatchNo),
		"inventory": inv,
	})
}

// FinalDispatch POST /inventory/final-dispatch/:batch_no
func (h *InventoryHandler) FinalDispatch(c *gin.Context) {
	inv, err := h.svc.FinalDispatch(c.Request.Context(), c.Param("batch_no"), GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"message":   fmt.Sprintf("Batch %s successfully sent to customer", inv.BatchNo),
		"inventory": inv,
	})
}

// DispatchHistory GET /inventory/dispatch-history
func (h *InventoryHandler) DispatchHistory(c *gin.Context) {
	items, err := h.svc.DispatchHistory(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// ExportDispatchHistory GET /inventory/dispatch-history/export
func (h *InventoryHandler) ExportDispatchHistory(c *gin.Context) {
	data, filename, err := h.svc.ExportDispatchHistory(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, service.XLSXContentType, data)
}
