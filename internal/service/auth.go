package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"MomCare/internal/model"
	"MomCare/pkg/errors"
	"MomCare/pkg/logger"
	"MomCare/pkg/snowflake"
	"MomCare/pkg/token"
	"MomCare/storage/database"
	"MomCare/utils"
)

type AuthService struct{}

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})

	return authService
}

// RegisterParams 注册请求参数，注册即建立孕期档案
type RegisterParams struct {
	Username         string
	Email            string
	Password         string
	FullName         string
	Phone            string
	Age              int
	LMPDate          string
	Address          string
	EmergencyContact string
	EmergencyPhone   string
	NotifyVia        model.NotifyChannel
}

// TokenPair 登录与刷新的返回结构
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Register 创建用户并建立孕期档案，两者在同一事务内
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	db := database.DB()

	var count int64
	err := db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", params.Username, params.Email).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.UsernameTaken
	}

	hash, err := utils.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	userID, err := snowflake.NextID()
	if err != nil {
		return nil, err
	}
	pregnancyID, err := snowflake.NextID()
	if err != nil {
		return nil, err
	}

	if params.NotifyVia == "" {
		params.NotifyVia = model.NotifyViaEmail
	}

	currentWeek := 0
	if params.LMPDate != "" {
		lmp, err := utils.ParseDate(params.LMPDate)
		if err != nil {
			return nil, errors.InvalidRequest
		}
		currentWeek = int(time.Since(lmp).Hours() / 24 / 7)
		if currentWeek < 0 {
			currentWeek = 0
		}
	}

	user := &model.User{
		PublicID:     strconv.FormatInt(userID, 10),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		FullName:     params.FullName,
		Phone:        params.Phone,
		Role:         model.RolePregnantWoman,
		IsActive:     true,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		pregnancy := &model.Pregnancy{
			PublicID:         strconv.FormatInt(pregnancyID, 10),
			UserID:           user.ID,
			Age:              params.Age,
			LMPDate:          params.LMPDate,
			CurrentWeek:      currentWeek,
			Address:          params.Address,
			EmergencyContact: params.EmergencyContact,
			EmergencyPhone:   params.EmergencyPhone,
			NotifyVia:        params.NotifyVia,
			IsActive:         true,
		}

		return tx.Create(pregnancy).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Logger.Info("User registered",
		zap.String("user_id", user.PublicID),
		zap.String("username", user.Username),
	)

	return user, nil
}

// Login 用户名或邮箱 + 密码登录
func (s *AuthService) Login(ctx context.Context, login, password string) (*model.User, *TokenPair, error) {
	db := database.DB()

	var user model.User
	err := db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&user).Error
	if err != nil {
		// 不区分用户不存在与密码错误
		return nil, nil, errors.LoginInvalid
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, nil, errors.LoginInvalid
	}

	if !user.IsActive {
		return nil, nil, errors.AccountInactive
	}

	access, refresh, expiresIn, err := token.GenerateTokenPair(user.PublicID, string(user.Role))
	if err != nil {
		return nil, nil, err
	}

	logger.Logger.Info("User logged in",
		zap.String("user_id", user.PublicID),
		zap.String("role", string(user.Role)),
	)

	return &user, &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}

// RefreshToken 用 refresh token 换新的 token 对
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized
	}

	user, err := s.UserByPublicID(ctx, userID)
	if err != nil {
		return nil, errors.Unauthorized
	}

	if !user.IsActive {
		return nil, errors.AccountInactive
	}

	access, refresh, expiresIn, err := token.GenerateTokenPair(user.PublicID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}

// UserByPublicID 按 public_id 查询用户
func (s *AuthService) UserByPublicID(ctx context.Context, publicID string) (*model.User, error) {
	var user model.User
	err := database.DB().WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
