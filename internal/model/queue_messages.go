package model

// VisitRecordedMessage 产检记录创建后投递到 MQ 的消息
type VisitRecordedMessage struct {
	MessageID string `json:"message_id"`
	VisitID   int64  `json:"visit_id"`
	Timestamp int64  `json:"timestamp"`
}
