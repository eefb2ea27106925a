package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/service"
)

// ProductionHandler 生产批次
type ProductionHandler struct {
	svc *service.ProductionService
}

func NewProductionHandler(svc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// Active GET /production/active-batches（/production/active 为别名）
func (h *ProductionHandler) Active(c *gin.Context) {
	items, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// StartBatch POST /production/start-batch
func (h *ProductionHandler) StartBatch(c *gin.Context) {
	var req service.StartBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	if req.AuthorizedBy == "" {
		req.AuthorizedBy = GetUserName(c)
	}
	batch, err := h.svc.StartBatch(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"message": fmt.Sprintf("Batch %s started", batch.BatchNumber),
		"batch":   batch,
	})
}

// EndBatch POST /production/end-batch/:id
func (h *ProductionHandler) EndBatch(c *gin.Context) {
	batch, err := h.svc.EndBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"message": fmt.Sprintf("Batch %s moved to QC", batch.BatchNumber),
		"batch":   batch,
	})
}

// QCHandler 质检
type QCHandler struct {
	svc *service.QCService
}

func NewQCHandler(svc *service.QCService) *QCHandler {
	return &QCHandler{svc: svc}
}

// PendingApproval GET /qc/pending-approval
func (h *QCHandler) PendingApproval(c *gin.Context) {
	items, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// ApproveBatch POST /qc/approve-batch/:id
func (h *QCHandler) ApproveBatch(c *gin.Context) {
	var req service.QCApproval
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	inv, err := h.svc.ApproveBatch(c.Request.Context(), c.Param("id"), req, GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"message":   fmt.Sprintf("Batch %s approved and moved to finished goods", inv.BatchNo),
		"inventory": inv,
	})
}

// Records GET /qc/records?batch_id=&page=&page_size=
func (h *QCHandler) Records(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.Records(c.Request.Context(), c.Query("batch_id"), page, pageSize)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, ListResponse{Items: items, Pagination: newPagination(page, pageSize, total)})
}
