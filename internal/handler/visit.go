package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MomCare/internal/service"
	"MomCare/pkg/errors"
	"MomCare/pkg/response"
)

type createVisitRequest struct {
	PregnancyID      string  `json:"pregnancy_id" vd:"len($)>0"`
	VisitDate        string  `json:"visit_date" vd:"len($)>0"`
	VisitType        string  `json:"visit_type"`
	GestationalWeek  int     `json:"gestational_week" vd:"$>0"`
	WeightKG         float64 `json:"weight_kg"`
	BPSystolic       int     `json:"blood_pressure_systolic"`
	BPDiastolic      int     `json:"blood_pressure_diastolic"`
	Hemoglobin       float64 `json:"hemoglobin"`
	SugarLevel       float64 `json:"sugar_level"`
	ProteinUrine     string  `json:"protein_urine"`
	FundalHeight     float64 `json:"fundal_height"`
	FetalHeartRate   int     `json:"fetal_heart_rate"`
	Complaints       string  `json:"complaints"`
	ExaminationNotes string  `json:"examination_notes"`
	Advice           string  `json:"advice"`
	NextVisitDate    string  `json:"next_visit_date"`
	RiskFactors      string  `json:"risk_factors"`
	Medications      string  `json:"medications"`
}

// CreateVisit 记录一次产检
// POST /v1/visits
func CreateVisit(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req createVisitRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	visit, err := service.Visit().CreateVisit(ctx, user, service.CreateVisitParams{
		PregnancyPublicID:  req.PregnancyID,
		VisitDate:          req.VisitDate,
		VisitType:          req.VisitType,
		GestationalWeek:    req.GestationalWeek,
		WeightKG:           req.WeightKG,
		BPSystolic:         req.BPSystolic,
		BPDiastolic:        req.BPDiastolic,
		Hemoglobin:         req.Hemoglobin,
		SugarLevel:         req.SugarLevel,
		ProteinUrine:       req.ProteinUrine,
		FundalHeightCM:     req.FundalHeight,
		FetalHeartRate:     req.FetalHeartRate,
		Complaints:         req.Complaints,
		ExaminationNotes:   req.ExaminationNotes,
		Advice:             req.Advice,
		NextVisitDate:      req.NextVisitDate,
		RiskFactors:        req.RiskFactors,
		MedicationsAdvised: req.Medications,
	})
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, visit)
}

// GetVisit 查询单条产检记录
// GET /v1/visits/:visit_id
func GetVisit(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	visit, err := service.Visit().GetVisit(ctx, user, c.Param("visit_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, visit)
}

// ListVisits 列出可见的产检记录
// GET /v1/visits?pregnancy_id=xxx
func ListVisits(ctx context.Context, c *app.RequestContext) {
	user, err := currentUser(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	visits, err := service.Visit().ListVisits(ctx, user, c.Query("pregnancy_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, visits)
}
