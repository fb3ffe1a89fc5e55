package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"MomCare/internal/handler"
	"MomCare/internal/middleware"
	"MomCare/internal/model"
)

func Register(h *server.Hertz) {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	// 产检记录路由
	visits := v1.Group("/visits")
	visits.Use(middleware.AuthMiddleware())
	{
		visits.GET("", handler.ListVisits)
		visits.GET("/:visit_id", handler.GetVisit)
		visits.POST("",
			middleware.RequireRoles(model.RoleDoctorAsha, model.RoleAdmin),
			handler.CreateVisit,
		)
	}

	// 风险告警路由
	alerts := v1.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware())
	{
		alerts.GET("", handler.ListAlerts)
		alerts.POST("/:alert_id/resolve",
			middleware.RequireRoles(model.RoleDoctorAsha, model.RoleAdmin),
			handler.ResolveAlert,
		)
	}

	// 产检提醒路由
	reminders := v1.Group("/reminders")
	reminders.Use(middleware.AuthMiddleware())
	{
		reminders.GET("", handler.ListReminders)
	}
}
