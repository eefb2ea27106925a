package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/middleware"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
)

// RegisterRoutes 注册业务路由，auth 为 JWT 鉴权中间件
func RegisterRoutes(r gin.IRouter, h *Handlers, auth gin.HandlerFunc) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "online", "system": "MCC Plant PDMS"})
	})

	// 公开接口
	authPublic := r.Group("/auth")
	{
		authPublic.POST("/register", h.Auth.Register)
		authPublic.POST("/login", h.Auth.Login)
	}

	api := r.Group("", auth)

	// 用户
	users := api.Group("/auth")
	{
		users.GET("/me", h.Auth.Me)
		users.GET("/users", middleware.RequireRole(entity.RoleAdmin), h.Auth.ListUsers)
		users.DELETE("/users/:id", middleware.RequireRole(entity.RoleAdmin), h.Auth.DeleteUser)
	}

	// 原料
	materials := api.Group("/materials")
	{
		materials.GET("/search", h.Material.Search)
		materials.GET("/history", h.Material.History)
		materials.POST("/add", h.Material.Add)
		materials.POST("/import-bulk", h.Material.ImportBulk)
		materials.POST("/import-xlsx", h.Material.ImportXLSX)
		materials.PUT("/update/:m_id", h.Material.Update)
		materials.DELETE("/delete/:m_id", h.Material.Delete)
	}

	// 生产
	production := api.Group("/production")
	{
		production.GET("/active-batches", h.Production.Active)
		production.GET("/active", h.Production.Active)
		production.POST("/start-batch", h.Production.StartBatch)
		production.POST("/end-batch/:id", h.Production.EndBatch)
	}

	// 质检
	qc := api.Group("/qc")
	{
		qc.GET("/pending-approval", h.QC.PendingApproval)
		qc.POST("/approve-batch/:id", h.QC.ApproveBatch)
		qc.GET("/records", h.QC.Records)
	}

	// 成品
	inventory := api.Group("/inventory")
	{
		inventory.GET("/finished-goods", h.Inventory.FinishedGoods)
		inventory.GET("/summary", h.Inventory.Summary)
		inventory.POST("/move-to-dispatch/:batch_no", h.Inventory.MoveToDispatch)
		inventory.POST("/final-dispatch/:batch_no", h.Inventory.FinalDispatch)
		inventory.GET("/dispatch-history", h.Inventory.DispatchHistory)
		inventory.GET("/dispatch-history/export", h.Inventory.ExportDispatchHistory)
	}

	// 设备维护
	maintenance := api.Group("/maintenance")
	{
		maintenance.GET("/assets", h.Maintenance.Assets)
		maintenance.POST("/register", h.Maintenance.Register)
		maintenance.GET("/risk-report", h.Maintenance.RiskReport)
		maintenance.POST("/assets/:id/readings", h.Maintenance.RecordReading)
		maintenance.GET("/assets/:id/records", h.Maintenance.Records)
	}

	api.POST("/ml/predict-quality", h.Prediction.PredictQuality)

	api.GET("/vendors", h.Vendor.List)
	api.POST("/vendors", h.Vendor.Create)

	// 看板
	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/summary", h.Dashboard.Summary)
		dashboard.GET("/analytics", h.Dashboard.Analytics)
		dashboard.GET("/notifications", h.Dashboard.Notifications)
	}

	api.POST("/ai/ask", h.Assistant.Ask)
	api.GET("/events/stream", h.SSE.Stream)
}
