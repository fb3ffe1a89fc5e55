package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MomCare/internal/service"
	"MomCare/pkg/response"
)

// ListReminders 列出可见的产检提醒
// GET /v1/reminders?pending=true
func ListReminders(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	pendingOnly := c.Query("pending") == "true"

	reminders, err := service.Reminder().ListReminders(ctx, user, pendingOnly)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, reminders)
}
