package queue

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"MomCare/internal/model"
	"MomCare/pkg/logger"
	"MomCare/storage/mq"
)

// PublishVisitRecorded 产检记录落库后发布事件，由 worker 异步做风险评估
func PublishVisitRecorded(visitID int64) error {
	msg := model.VisitRecordedMessage{
		MessageID: uuid.NewString(),
		VisitID:   visitID,
		Timestamp: time.Now().Unix(),
	}

	err := mq.PublishMessage(mq.ExchangeEvents, mq.RoutingKeyVisitRecorded, msg)
	if err != nil {
		logger.Logger.Error("Failed to publish visit recorded event",
			zap.Int64("visit_id", visitID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Visit recorded event published",
		zap.Int64("visit_id", visitID),
		zap.String("message_id", msg.MessageID),
	)

	return nil
}
