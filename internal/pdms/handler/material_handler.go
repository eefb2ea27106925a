package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/service"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// MaterialHandler 原料台账
type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// Search GET /materials/search?query=&limit=
func (h *MaterialHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.svc.Search(c.Request.Context(), c.Query("query"), limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Add POST /materials/add
func (h *MaterialHandler) Add(c *gin.Context) {
	var req service.MaterialEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	material, err := h.svc.Intake(c.Request.Context(), req, GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "Material Processed", "material": material})
}

// ImportBulk POST /materials/import-bulk
func (h *MaterialHandler) ImportBulk(c *gin.Context) {
	var entries []service.MaterialEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	n, err := h.svc.BulkImport(c.Request.Context(), entries, GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": fmt.Sprintf("Successfully imported %d items", n), "count": n})
}

// ImportXLSX POST /materials/import-xlsx (multipart file)
func (h *MaterialHandler) ImportXLSX(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		BadRequest(c, "invalid xlsx file: "+err.Error())
		return
	}
	defer f.Close()

	n, err := h.svc.ImportWorkbook(c.Request.Context(), f, GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": fmt.Sprintf("Successfully imported %d items", n), "count": n})
}

// updateMaterialRequest material_id 取自路径
type updateMaterialRequest struct {
	Name     string          `json:"name" binding:"required"`
	Kg       decimal.Decimal `json:"kg"`
	Supplier string          `json:"supplier"`
}

// Update PUT /materials/update/:m_id
func (h *MaterialHandler) Update(c *gin.Context) {
	var req updateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	entry := service.MaterialEntry{MaterialID: c.Param("m_id"), Name: req.Name, Kg: req.Kg, Supplier: req.Supplier}
	material, err := h.svc.Update(c.Request.Context(), entry.MaterialID, entry, GetUserName(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "Material updated", "material": material})
}

// Delete DELETE /materials/delete/:m_id
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("m_id"), GetUserName(c)); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"message": "Material deleted"})
}

// History GET /materials/history?material_id=
func (h *MaterialHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.svc.History(c.Request.Context(), c.Query("material_id"), limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}
