package metrics

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics 业务指标集合
type OTelMetrics struct {
	meter metric.Meter

	// 短信指标
	smsSentCounter   metric.Int64Counter
	smsFailedCounter metric.Int64Counter

	// 邮件指标
	emailSentCounter   metric.Int64Counter
	emailFailedCounter metric.Int64Counter

	// 提醒批处理指标
	reminderGeneratedCounter metric.Int64Counter
	reminderSentCounter      metric.Int64Counter
	reminderFailedCounter    metric.Int64Counter
	reminderRunDuration      metric.Float64Histogram

	// 告警指标
	alertRaisedCounter metric.Int64Counter
}

var (
	globalMetrics *OTelMetrics
	metricsOnce   sync.Once
)

// InitMetrics 初始化业务指标，需要在 otel.InitOpenTelemetry 之后调用
func InitMetrics() error {
	var initErr error

	metricsOnce.Do(func() {
		m := &OTelMetrics{
			meter: otel.Meter("momcare"),
		}

		var err error

		m.smsSentCounter, err = m.meter.Int64Counter(
			"momcare_sms_sent_total",
			metric.WithDescription("Total number of SMS messages sent successfully"),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to create sms sent counter: %w", err)
			return
		}

		m.smsFailedCounter, err = m.meter.Int64Counter(
			"momcare_sms_failed_total",
			metric.WithDescription("Total number of SMS messages failed to send"),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to create sms failed counter: %w", err)
			return
		}

		m.emailSentCounter, err = m.meter.Int64Counter(
			"momcare_email_sent_total",
			metric.WithDescription("Total number of emails sent successfully"),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to create email sent counter: %w", err)
			return
		}

		m.emailFailedCounter, err = m.meter.Int64Counter(
			"momcare_email_failed_total",
			metric.WithDescription("Total number of emails failed to send"),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to create email failed counter: %w", err)
			return
		}

		m.reminderGeneratedCounter, err = m.meter.Int64Counter(
			"momcare_reminder_generated_total",
			metric.WithDescription("Total number of visit reminders generated"),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to create reminder generated counter: %w", err)
			return
		}

		m.reminderSentCounter, err = m.meter.Int64Counter(
			"momcare_reminder_sent_total",
			metric.WithDescription("Total number of visit reminders delivered"),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to create reminder sent counter: %w", err)
			return
		}

		m.reminderFailedCounter, err = m.meter.Int64Counter(
			"momcare_reminder_failed_total",
			metric.WithDescription("Total number of visit reminders that failed delivery"),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to create reminder failed counter: %w", err)
			return
		}

		m.reminderRunDuration, err = m.meter.Float64Histogram(
			"momcare_reminder_run_duration_seconds",
			metric.WithDescription("Duration of a full reminder batch run"),
			metric.WithUnit("s"),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to create reminder run duration histogram: %w", err)
			return
		}

		m.alertRaisedCounter, err = m.meter.Int64Counter(
			"momcare_alert_raised_total",
			metric.WithDescription("Total number of risk alerts raised"),
		)
		if err != nil {
			initErr = fmt.Errorf("failed to create alert raised counter: %w", err)
			return
		}

		globalMetrics = m
	})

	return initErr
}

// GetMetrics 获取全局指标实例，未初始化时返回 nil
func GetMetrics() *OTelMetrics {
	return globalMetrics
}

func (m *OTelMetrics) RecordSMSSent(ctx context.Context, template, provider string) {
	m.smsSentCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template", template),
		attribute.String("provider", provider),
	))
}

func (m *OTelMetrics) RecordSMSFailed(ctx context.Context, template, provider, reason string) {
	m.smsFailedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template", template),
		attribute.String("provider", provider),
		attribute.String("reason", reason),
	))
}

func (m *OTelMetrics) RecordEmailSent(ctx context.Context) {
	m.emailSentCounter.Add(ctx, 1)
}

func (m *OTelMetrics) RecordEmailFailed(ctx context.Context) {
	m.emailFailedCounter.Add(ctx, 1)
}

func (m *OTelMetrics) RecordReminderGenerated(ctx context.Context, count int64) {
	m.reminderGeneratedCounter.Add(ctx, count)
}

func (m *OTelMetrics) RecordReminderSent(ctx context.Context, channel string) {
	m.reminderSentCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
	))
}

func (m *OTelMetrics) RecordReminderFailed(ctx context.Context, channel string) {
	m.reminderFailedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
	))
}

func (m *OTelMetrics) RecordReminderRunDuration(ctx context.Context, seconds float64) {
	m.reminderRunDuration.Record(ctx, seconds)
}

func (m *OTelMetrics) RecordAlertRaised(ctx context.Context, alertType, severity string) {
	m.alertRaisedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", alertType),
		attribute.String("severity", severity),
	))
}

// 包级别的便捷函数，未初始化时静默丢弃，避免业务路径依赖指标初始化顺序

func RecordSMSSent(template, provider string) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.RecordSMSSent(context.Background(), template, provider)
}

func RecordSMSFailed(template, provider, reason string) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.RecordSMSFailed(context.Background(), template, provider, reason)
}

func RecordEmailSent() {
	if globalMetrics == nil {
		return
	}
	globalMetrics.RecordEmailSent(context.Background())
}

func RecordEmailFailed() {
	if globalMetrics == nil {
		return
	}
	globalMetrics.RecordEmailFailed(context.Background())
}

func RecordReminderGenerated(count int64) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.RecordReminderGenerated(context.Background(), count)
}

func RecordReminderSent(channel string) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.RecordReminderSent(context.Background(), channel)
}

func RecordReminderFailed(channel string) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.RecordReminderFailed(context.Background(), channel)
}

func RecordReminderRunDuration(seconds float64) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.RecordReminderRunDuration(context.Background(), seconds)
}

func RecordAlertRaised(alertType, severity string) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.RecordAlertRaised(context.Background(), alertType, severity)
}
