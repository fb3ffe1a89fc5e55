package service

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"MomCare/internal/model"
	"MomCare/pkg/errors"
	"MomCare/pkg/logger"
	"MomCare/storage/database"
)

type AlertService struct{}

var (
	alertService *AlertService
	alertOnce    sync.Once
)

func Alert() *AlertService {
	alertOnce.Do(func() {
		alertService = &AlertService{}
	})

	return alertService
}

// ListAlerts 按角色列出可见的风险告警，unresolvedOnly 为 true 时只返回未处理的
func (s *AlertService) ListAlerts(ctx context.Context, requester *model.User, unresolvedOnly bool) ([]model.RiskAlert, error) {
	query := database.DB().WithContext(ctx).
		Model(&model.RiskAlert{}).
		Joins("JOIN pregnancies ON pregnancies.id = risk_alerts.pregnancy_id AND pregnancies.deleted_at IS NULL").
		Order("risk_alerts.created_at DESC")

	switch requester.Role {
	case model.RolePregnantWoman:
		query = query.Where("pregnancies.user_id = ?", requester.ID)
	case model.RoleDoctorAsha:
		query = query.Where("pregnancies.assigned_doctor_id = ?", requester.ID)
	case model.RoleAdmin:
		// 管理员可见全部
	default:
		return nil, errors.RoleNotPermitted
	}

	if unresolvedOnly {
		query = query.Where("risk_alerts.is_resolved = ?", false)
	}

	var alerts []model.RiskAlert
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}

	return alerts, nil
}

// ResolveAlert 医生处理自己患者的告警，管理员可处理全部
func (s *AlertService) ResolveAlert(ctx context.Context, resolver *model.User, alertPublicID string) (*model.RiskAlert, error) {
	db := database.DB()

	var riskAlert model.RiskAlert
	err := db.WithContext(ctx).
		Preload("Pregnancy").
		Where("public_id = ?", alertPublicID).
		First(&riskAlert).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.AlertNotFound
		}
		return nil, err
	}

	switch resolver.Role {
	case model.RoleAdmin:
	case model.RoleDoctorAsha:
		if riskAlert.Pregnancy.AssignedDoctorID == nil || *riskAlert.Pregnancy.AssignedDoctorID != resolver.ID {
			return nil, errors.AccessDenied
		}
	default:
		return nil, errors.RoleNotPermitted
	}

	if riskAlert.IsResolved {
		return nil, errors.AlertAlreadyResolved
	}

	now := time.Now().UTC()
	err = db.WithContext(ctx).
		Model(&model.RiskAlert{}).
		Where("id = ?", riskAlert.ID).
		Updates(map[string]interface{}{
			"is_resolved": true,
			"resolved_at": now,
			"resolved_by": resolver.ID,
		}).Error
	if err != nil {
		return nil, err
	}

	riskAlert.IsResolved = true
	riskAlert.ResolvedAt = &now
	riskAlert.ResolvedBy = &resolver.ID

	logger.Logger.Info("Risk alert resolved",
		zap.String("alert_id", riskAlert.PublicID),
		zap.String("resolved_by", resolver.PublicID),
	)

	return &riskAlert, nil
}
