package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MomCare/internal/service"
	"MomCare/pkg/response"
)

// ListAlerts 列出可见的风险告警
// GET /v1/alerts?unresolved=true
func ListAlerts(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	unresolvedOnly := c.Query("unresolved") == "true"

	alerts, err := service.Alert().ListAlerts(ctx, user, unresolvedOnly)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, alerts)
}

// ResolveAlert 处理一条风险告警
// POST /v1/alerts/:alert_id/resolve
func ResolveAlert(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	resolved, err := service.Alert().ResolveAlert(ctx, user, c.Param("alert_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resolved)
}
