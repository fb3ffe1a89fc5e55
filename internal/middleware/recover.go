package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"MomCare/config"
	"MomCare/pkg/errors"
	"MomCare/pkg/logger"
	"MomCare/pkg/response"
)

// RecoverMiddleware 捕获 handler panic，记录日志并返回统一错误响应
func RecoverMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				handlePanic(ctx, c, err)
			}
		}()

		c.Next(ctx)
	}
}

func handlePanic(ctx context.Context, c *app.RequestContext, err interface{}) {
	fields := []zap.Field{
		zap.String("panic", fmt.Sprintf("%v", err)),
		zap.String("path", string(c.Path())),
		zap.String("method", string(c.Method())),
		zap.String("client_ip", c.ClientIP()),
		zap.ByteString("stack", debug.Stack()),
	}

	if userID, exists := GetUserID(ctx, c); exists {
		fields = append(fields, zap.String("user_id", userID))
	}

	logger.Logger.Error("[PANIC RECOVERED]", fields...)

	errDef := errors.Definition{
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "Internal server error, please try again later",
	}

	// 开发环境把 panic 内容带回给调用方，方便排查
	if !config.Cfg.IsProduction() {
		errDef.Message = fmt.Sprintf("Internal error: %v (at %s)", err, time.Now().Format(time.RFC3339))
	}

	response.Error(ctx, c, errDef)
}
