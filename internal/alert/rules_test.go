package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomCare/internal/model"
)

func TestEvaluateNormalVisit(t *testing.T) {
	v := &model.Visit{
		BPSystolic:     118,
		BPDiastolic:    76,
		Hemoglobin:     11.5,
		FetalHeartRate: 140,
		SugarLevel:     92,
		ProteinUrine:   "nil",
	}

	assert.Empty(t, Evaluate(v))
}

func TestEvaluateUnmeasuredFieldsIgnored(t *testing.T) {
	// 全零值代表本次未测量，不应误报
	assert.Empty(t, Evaluate(&model.Visit{}))
}

func TestEvaluateHypertension(t *testing.T) {
	high := Evaluate(&model.Visit{BPSystolic: 145, BPDiastolic: 88})
	require.Len(t, high, 1)
	assert.Equal(t, model.AlertTypeHighBP, high[0].Type)
	assert.Equal(t, model.SeverityHigh, high[0].Severity)

	critical := Evaluate(&model.Visit{BPSystolic: 150, BPDiastolic: 112})
	require.Len(t, critical, 1)
	assert.Equal(t, model.SeverityCritical, critical[0].Severity)
}

func TestEvaluateAnemia(t *testing.T) {
	high := Evaluate(&model.Visit{Hemoglobin: 8.2})
	require.Len(t, high, 1)
	assert.Equal(t, model.AlertTypeLowHB, high[0].Type)
	assert.Equal(t, model.SeverityHigh, high[0].Severity)

	critical := Evaluate(&model.Visit{Hemoglobin: 6.5})
	require.Len(t, critical, 1)
	assert.Equal(t, model.SeverityCritical, critical[0].Severity)
}

func TestEvaluateFetalHeartRate(t *testing.T) {
	low := Evaluate(&model.Visit{FetalHeartRate: 100})
	require.Len(t, low, 1)
	assert.Equal(t, model.AlertTypeAbnormalFHR, low[0].Type)

	fast := Evaluate(&model.Visit{FetalHeartRate: 175})
	require.Len(t, fast, 1)

	assert.Empty(t, Evaluate(&model.Visit{FetalHeartRate: 110}))
	assert.Empty(t, Evaluate(&model.Visit{FetalHeartRate: 160}))
}

func TestEvaluateProteinuria(t *testing.T) {
	assert.Empty(t, Evaluate(&model.Visit{ProteinUrine: "trace"}))
	assert.Empty(t, Evaluate(&model.Visit{ProteinUrine: "+"}))

	plus := Evaluate(&model.Visit{ProteinUrine: "++"})
	require.Len(t, plus, 1)
	assert.Equal(t, model.AlertTypeProteinuria, plus[0].Type)

	numeric := Evaluate(&model.Visit{ProteinUrine: "3+"})
	require.Len(t, numeric, 1)
}

func TestEvaluateBloodSugar(t *testing.T) {
	alerts := Evaluate(&model.Visit{SugarLevel: 152})
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertTypeHighSugar, alerts[0].Type)
}

func TestEvaluateMultipleFindings(t *testing.T) {
	v := &model.Visit{
		BPSystolic:   162,
		BPDiastolic:  100,
		Hemoglobin:   8.0,
		ProteinUrine: "++",
	}
	v.ID = 7
	v.PregnancyID = 3

	alerts := Evaluate(v)
	require.Len(t, alerts, 3)

	for _, a := range alerts {
		assert.Equal(t, int64(7), a.VisitID)
		assert.Equal(t, int64(3), a.PregnancyID)
	}

	assert.Equal(t, model.SeverityCritical, HighestSeverity(alerts))
}

func TestHighestSeverityEmpty(t *testing.T) {
	assert.Empty(t, string(HighestSeverity(nil)))
}
