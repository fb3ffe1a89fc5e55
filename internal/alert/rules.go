package alert

import (
	"fmt"
	"strings"

	"MomCare/internal/model"
)

// 产检体征的风险阈值，参照产科常用临床标准
const (
	bpSystolicHigh      = 140
	bpDiastolicHigh     = 90
	bpSystolicCritical  = 160
	bpDiastolicCritical = 110

	hemoglobinLow      = 9.0
	hemoglobinCritical = 7.0

	fetalHeartRateMin = 110
	fetalHeartRateMax = 160

	sugarLevelHigh = 140.0
)

// Evaluate 对一次产检记录做风险评估，返回需要建档的告警。
// 字段为零值时视为未测量，不参与评估。
func Evaluate(v *model.Visit) []model.RiskAlert {
	var alerts []model.RiskAlert

	add := func(alertType model.AlertType, severity model.AlertSeverity, message string) {
		alerts = append(alerts, model.RiskAlert{
			PregnancyID: v.PregnancyID,
			VisitID:     v.ID,
			Type:        alertType,
			Severity:    severity,
			Message:     message,
		})
	}

	if v.BPSystolic > 0 && v.BPDiastolic > 0 {
		switch {
		case v.BPSystolic >= bpSystolicCritical || v.BPDiastolic >= bpDiastolicCritical:
			add(model.AlertTypeHighBP, model.SeverityCritical,
				fmt.Sprintf("Severe hypertension: blood pressure %d/%d mmHg", v.BPSystolic, v.BPDiastolic))
		case v.BPSystolic >= bpSystolicHigh || v.BPDiastolic >= bpDiastolicHigh:
			add(model.AlertTypeHighBP, model.SeverityHigh,
				fmt.Sprintf("Elevated blood pressure: %d/%d mmHg", v.BPSystolic, v.BPDiastolic))
		}
	}

	if v.Hemoglobin > 0 {
		switch {
		case v.Hemoglobin < hemoglobinCritical:
			add(model.AlertTypeLowHB, model.SeverityCritical,
				fmt.Sprintf("Severe anemia: hemoglobin %.1f g/dL", v.Hemoglobin))
		case v.Hemoglobin < hemoglobinLow:
			add(model.AlertTypeLowHB, model.SeverityHigh,
				fmt.Sprintf("Anemia: hemoglobin %.1f g/dL", v.Hemoglobin))
		}
	}

	if v.FetalHeartRate > 0 && (v.FetalHeartRate < fetalHeartRateMin || v.FetalHeartRate > fetalHeartRateMax) {
		add(model.AlertTypeAbnormalFHR, model.SeverityHigh,
			fmt.Sprintf("Abnormal fetal heart rate: %d bpm (expected %d-%d)",
				v.FetalHeartRate, fetalHeartRateMin, fetalHeartRateMax))
	}

	if proteinuriaGrade(v.ProteinUrine) >= 2 {
		add(model.AlertTypeProteinuria, model.SeverityHigh,
			fmt.Sprintf("Significant proteinuria: %s", v.ProteinUrine))
	}

	if v.SugarLevel > sugarLevelHigh {
		add(model.AlertTypeHighSugar, model.SeverityHigh,
			fmt.Sprintf("Elevated blood sugar: %.1f mg/dL", v.SugarLevel))
	}

	return alerts
}

// proteinuriaGrade 解析尿蛋白检测结果，支持 "++" 与 "2+" 两种写法
func proteinuriaGrade(result string) int {
	result = strings.TrimSpace(result)
	if result == "" {
		return 0
	}

	if n := strings.Count(result, "+"); n > 0 {
		if len(result) > 1 && result[0] >= '1' && result[0] <= '4' {
			return int(result[0] - '0')
		}
		return n
	}

	return 0
}

// HighestSeverity 返回一组告警中的最高级别
func HighestSeverity(alerts []model.RiskAlert) model.AlertSeverity {
	severity := model.AlertSeverity("")
	for _, a := range alerts {
		if a.Severity == model.SeverityCritical {
			return model.SeverityCritical
		}
		severity = a.Severity
	}
	return severity
}
