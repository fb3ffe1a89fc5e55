package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MomCare/internal/middleware"
	"MomCare/internal/model"
	"MomCare/internal/service"
	"MomCare/pkg/errors"
)

// currentUser 从鉴权后的请求上下文加载当前用户
func currentUser(ctx context.Context, c *app.RequestContext) (*model.User, error) {
	publicID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		return nil, errors.Unauthorized
	}

	user, err := service.Auth().UserByPublicID(ctx, publicID)
	if err != nil {
		return nil, errors.Unauthorized
	}

	if !user.IsActive {
		return nil, errors.AccountInactive
	}

	return user, nil
}
