package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"MomCare/internal/alert"
	"MomCare/internal/cache"
	"MomCare/internal/model"
	"MomCare/pkg/errors"
	"MomCare/pkg/logger"
	"MomCare/pkg/metrics"
	"MomCare/pkg/snowflake"
	"MomCare/storage/database"
	"MomCare/storage/mq"
)

// DoctorNotifier 危急告警时通知医生的能力
type DoctorNotifier interface {
	SendSMS(ctx context.Context, phone, text string) error
}

var doctorNotifier DoctorNotifier

// SetDoctorNotifier 设置医生通知器，在 worker 启动时调用
func SetDoctorNotifier(n DoctorNotifier) {
	doctorNotifier = n
}

// StartVisitRecordedConsumer 消费产检记录事件，做风险评估并建档告警
func StartVisitRecordedConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.VisitRecordedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal visit recorded message: %w", err)
		}

		ok, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，可能重复评估但不阻塞业务
		} else if !ok {
			return &errors.SkipMessageError{
				Reason: fmt.Sprintf("message %s already processed", msg.MessageID),
			}
		}

		if err := evaluateVisit(ctx, msg.VisitID); err != nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return err
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueueVisitRecorded,
		ConsumerTag:   "visit_recorded_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// evaluateVisit 加载产检记录、执行风险评估并持久化告警
func evaluateVisit(ctx context.Context, visitID int64) error {
	db := database.DB()

	var visit model.Visit
	if err := db.WithContext(ctx).First(&visit, visitID).Error; err != nil {
		return &errors.SkipMessageError{
			Reason: fmt.Sprintf("visit %d not found", visitID),
		}
	}

	alerts := alert.Evaluate(&visit)
	if len(alerts) == 0 {
		return nil
	}

	for i := range alerts {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate alert id: %w", err)
		}
		alerts[i].PublicID = strconv.FormatInt(id, 10)
	}

	if err := db.WithContext(ctx).Create(&alerts).Error; err != nil {
		return fmt.Errorf("failed to persist risk alerts: %w", err)
	}

	for _, a := range alerts {
		metrics.RecordAlertRaised(string(a.Type), string(a.Severity))
	}

	logger.Logger.Info("Risk alerts raised for visit",
		zap.Int64("visit_id", visitID),
		zap.Int("alert_count", len(alerts)),
	)

	if alert.HighestSeverity(alerts) == model.SeverityCritical {
		notifyDoctor(ctx, &visit, alerts)
	}

	return nil
}

// notifyDoctor 危急告警时短信通知主治医生，通知失败只记日志不重试
func notifyDoctor(ctx context.Context, visit *model.Visit, alerts []model.RiskAlert) {
	if doctorNotifier == nil {
		return
	}

	db := database.DB()

	var pregnancy model.Pregnancy
	if err := db.WithContext(ctx).First(&pregnancy, visit.PregnancyID).Error; err != nil {
		logger.Logger.Warn("Failed to load pregnancy for doctor notification",
			zap.Int64("pregnancy_id", visit.PregnancyID),
			zap.Error(err),
		)
		return
	}

	if pregnancy.AssignedDoctorID == nil {
		return
	}

	var doctor model.User
	if err := db.WithContext(ctx).First(&doctor, *pregnancy.AssignedDoctorID).Error; err != nil || doctor.Phone == "" {
		logger.Logger.Warn("No reachable doctor for critical alert",
			zap.Int64("pregnancy_id", visit.PregnancyID),
		)
		return
	}

	var patient model.User
	patientName := "a patient"
	if err := db.WithContext(ctx).First(&patient, pregnancy.UserID).Error; err == nil {
		patientName = patient.FullName
	}

	text := fmt.Sprintf("CRITICAL: %s has %d critical finding(s) at week %d. Please review immediately. - Maternal Healthcare",
		patientName, len(alerts), visit.GestationalWeek)

	if err := doctorNotifier.SendSMS(ctx, doctor.Phone, text); err != nil {
		logger.Logger.Error("Failed to notify doctor of critical alert",
			zap.Int64("doctor_id", doctor.ID),
			zap.Error(err),
		)
	}
}

// StartAllConsumers 启动全部消费者，任一消费者退出即返回
func StartAllConsumers(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- StartVisitRecordedConsumer(ctx)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
