package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MomCare/internal/model"
	"MomCare/internal/service"
	"MomCare/pkg/errors"
	"MomCare/pkg/response"
)

type registerRequest struct {
	Username         string `json:"username" vd:"len($)>2 && len($)<65"`
	Email            string `json:"email" vd:"email($)"`
	Password         string `json:"password" vd:"len($)>7"`
	FullName         string `json:"full_name" vd:"len($)>0"`
	Phone            string `json:"phone"`
	Age              int    `json:"age"`
	LMPDate          string `json:"lmp_date"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
	NotifyVia        string `json:"notify_via"`
}

type loginRequest struct {
	Login    string `json:"login" vd:"len($)>0"`
	Password string `json:"password" vd:"len($)>0"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" vd:"len($)>0"`
}

// Register 用户注册，同时建立孕期档案
// POST /v1/auth/register
func Register(ctx context.Context, c *app.RequestContext) {
	var req registerRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	user, err := service.Auth().Register(ctx, service.RegisterParams{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		FullName:         req.FullName,
		Phone:            req.Phone,
		Age:              req.Age,
		LMPDate:          req.LMPDate,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		NotifyVia:        model.NotifyChannel(req.NotifyVia),
	})
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, user)
}

// Login 用户名或邮箱登录
// POST /v1/auth/login
func Login(ctx context.Context, c *app.RequestContext) {
	var req loginRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	user, tokens, err := service.Auth().Login(ctx, req.Login, req.Password)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	})
}

// RefreshToken 刷新访问令牌
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req refreshRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	tokens, err := service.Auth().RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, tokens)
}
