package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/middleware"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/service"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/sse"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
)

// Handlers 处理器集合
type Handlers struct {
	Material    *MaterialHandler
	Production  *ProductionHandler
	QC          *QCHandler
	Inventory   *InventoryHandler
	Maintenance *MaintenanceHandler
	Prediction  *PredictionHandler
	Auth        *AuthHandler
	Vendor      *VendorHandler
	Dashboard   *DashboardHandler
	Assistant   *AssistantHandler
	SSE         *SSEHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, hub *sse.Hub) *Handlers {
	return &Handlers{
		Material:    NewMaterialHandler(svc.Material),
		Production:  NewProductionHandler(svc.Production),
		QC:          NewQCHandler(svc.QC),
		Inventory:   NewInventoryHandler(svc.Inventory),
		Maintenance: NewMaintenanceHandler(svc.Maintenance),
		Prediction:  NewPredictionHandler(svc.Prediction),
		Auth:        NewAuthHandler(svc.Auth),
		Vendor:      NewVendorHandler(svc.Vendor),
		Dashboard:   NewDashboardHandler(svc.Dashboard),
		Assistant:   NewAssistantHandler(svc.Assistant),
		SSE:         NewSSEHandler(hub),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 列表响应结构
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// 业务错误码，HTTP 状态码 = code / 100
const (
	CodeBadRequest        = 40000
	CodeInsufficientStock = 40001
	CodeConflict          = 40002
	CodeUnauthorized      = 40100
	CodeForbidden         = 40300
	CodeNotFound          = 40400
	CodeInternal          = 50000
)

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, CodeBadRequest, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, CodeNotFound, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, CodeInternal, message)
}

// RespondError 按业务错误类别映射响应码
// 内部错误只返回概要信息，底层原因留在日志里
func RespondError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok {
		_ = c.Error(err)
		InternalError(c, "internal server error")
		return
	}
	switch e.Kind {
	case apperr.KindValidation:
		BadRequest(c, e.Message)
	case apperr.KindInsufficientStock:
		Error(c, CodeInsufficientStock, e.Message)
	case apperr.KindConflict:
		Error(c, CodeConflict, e.Message)
	case apperr.KindUnauthorized:
		Error(c, CodeUnauthorized, e.Message)
	case apperr.KindForbidden:
		Error(c, CodeForbidden, e.Message)
	case apperr.KindNotFound:
		NotFound(c, e.Message)
	default:
		_ = c.Error(err)
		InternalError(c, e.Message)
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

// GetUserName 当前用户名，作为操作日志的操作人
func GetUserName(c *gin.Context) string {
	return c.GetString(middleware.ContextUserName)
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

func newPagination(page, pageSize int, total int64) *Pagination {
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: int(total), TotalPages: pages}
}
