package service

import (
	"context"
	stderrors "errors"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"MomCare/internal/model"
	"MomCare/internal/queue"
	"MomCare/pkg/errors"
	"MomCare/pkg/logger"
	"MomCare/pkg/snowflake"
	"MomCare/storage/database"
)

type VisitService struct{}

var (
	visitService *VisitService
	visitOnce    sync.Once
)

func Visit() *VisitService {
	visitOnce.Do(func() {
		visitService = &VisitService{}
	})

	return visitService
}

// CreateVisitParams 产检记录创建参数
type CreateVisitParams struct {
	PregnancyPublicID  string
	VisitDate          string
	VisitType          string
	GestationalWeek    int
	WeightKG           float64
	BPSystolic         int
	BPDiastolic        int
	Hemoglobin         float64
	SugarLevel         float64
	ProteinUrine       string
	FundalHeightCM     float64
	FetalHeartRate     int
	Complaints         string
	ExaminationNotes   string
	Advice             string
	NextVisitDate      string
	RiskFactors        string
	MedicationsAdvised string
}

// CreateVisit 医生为孕妇记录一次产检。
// 落库后异步触发风险评估，同一事务内推进孕期档案的当前孕周。
func (s *VisitService) CreateVisit(ctx context.Context, doctor *model.User, params CreateVisitParams) (*model.Visit, error) {
	if params.GestationalWeek < 1 || params.GestationalWeek > 42 {
		return nil, errors.VisitWeekInvalid
	}

	pregnancy, err := s.pregnancyByPublicID(ctx, params.PregnancyPublicID)
	if err != nil {
		return nil, err
	}

	if !pregnancy.IsActive {
		return nil, errors.PregnancyInactive
	}

	if err := s.checkDoctorAccess(doctor, pregnancy); err != nil {
		return nil, err
	}

	visitID, err := snowflake.NextID()
	if err != nil {
		return nil, err
	}

	if params.VisitType == "" {
		params.VisitType = "routine"
	}

	visit := &model.Visit{
		PublicID:           strconv.FormatInt(visitID, 10),
		PregnancyID:        pregnancy.ID,
		DoctorID:           doctor.ID,
		VisitDate:          params.VisitDate,
		VisitType:          params.VisitType,
		GestationalWeek:    params.GestationalWeek,
		WeightKG:           params.WeightKG,
		BPSystolic:         params.BPSystolic,
		BPDiastolic:        params.BPDiastolic,
		Hemoglobin:         params.Hemoglobin,
		SugarLevel:         params.SugarLevel,
		ProteinUrine:       params.ProteinUrine,
		FundalHeightCM:     params.FundalHeightCM,
		FetalHeartRate:     params.FetalHeartRate,
		Complaints:         params.Complaints,
		ExaminationNotes:   params.ExaminationNotes,
		Advice:             params.Advice,
		NextVisitDate:      params.NextVisitDate,
		RiskFactors:        params.RiskFactors,
		MedicationsAdvised: params.MedicationsAdvised,
	}

	err = database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(visit).Error; err != nil {
			return err
		}

		// 产检记录推进孕周，只前进不后退
		if params.GestationalWeek > pregnancy.CurrentWeek {
			return tx.Model(&model.Pregnancy{}).
				Where("id = ?", pregnancy.ID).
				Update("current_week", params.GestationalWeek).Error
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后再发事件，评估失败不影响记录本身
	if err := queue.PublishVisitRecorded(visit.ID); err != nil {
		logger.Logger.Warn("Visit recorded but risk evaluation event not published",
			zap.String("visit_id", visit.PublicID),
			zap.Error(err),
		)
	}

	return visit, nil
}

// GetVisit 查询单条产检记录，校验访问权限
func (s *VisitService) GetVisit(ctx context.Context, requester *model.User, visitPublicID string) (*model.Visit, error) {
	var visit model.Visit
	err := database.DB().WithContext(ctx).
		Preload("Pregnancy").
		Where("public_id = ?", visitPublicID).
		First(&visit).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.VisitNotFound
		}
		return nil, err
	}

	if err := s.checkReadAccess(requester, &visit.Pregnancy); err != nil {
		return nil, err
	}

	return &visit, nil
}

// ListVisits 按请求者角色列出可见的产检记录
func (s *VisitService) ListVisits(ctx context.Context, requester *model.User, pregnancyPublicID string) ([]model.Visit, error) {
	db := database.DB().WithContext(ctx)

	query := db.Model(&model.Visit{}).
		Joins("JOIN pregnancies ON pregnancies.id = visits.pregnancy_id AND pregnancies.deleted_at IS NULL").
		Order("visits.visit_date DESC")

	if pregnancyPublicID != "" {
		query = query.Where("pregnancies.public_id = ?", pregnancyPublicID)
	}

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

	var visits []model.Visit
	if err := query.Find(&visits).Error; err != nil {
		return nil, err
	}

	return visits, nil
}

func (s *VisitService) pregnancyByPublicID(ctx context.Context, publicID string) (*model.Pregnancy, error) {
	var pregnancy model.Pregnancy
	err := database.DB().WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&pregnancy).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.PregnancyNotFound
		}
		return nil, err
	}
	return &pregnancy, nil
}

// checkDoctorAccess 医生只能操作自己负责的孕妇，管理员不受限
func (s *VisitService) checkDoctorAccess(doctor *model.User, pregnancy *model.Pregnancy) error {
	if doctor.Role == model.RoleAdmin {
		return nil
	}
	if doctor.Role != model.RoleDoctorAsha {
		return errors.RoleNotPermitted
	}
	if pregnancy.AssignedDoctorID == nil || *pregnancy.AssignedDoctorID != doctor.ID {
		return errors.AccessDenied
	}
	return nil
}

func (s *VisitService) checkReadAccess(requester *model.User, pregnancy *model.Pregnancy) error {
	switch requester.Role {
	case model.RoleAdmin:
		return nil
	case model.RolePregnantWoman:
		if pregnancy.UserID != requester.ID {
			return errors.AccessDenied
		}
		return nil
	case model.RoleDoctorAsha:
		if pregnancy.AssignedDoctorID == nil || *pregnancy.AssignedDoctorID != requester.ID {
			return errors.AccessDenied
		}
		return nil
	default:
		return errors.RoleNotPermitted
	}
}
