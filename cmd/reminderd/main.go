package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"MomCare/config"
	"MomCare/internal/cache"
	"MomCare/internal/repository"
	"MomCare/internal/schedule"
	"MomCare/pkg/logger"
	"MomCare/pkg/mailer"
	"MomCare/pkg/metrics"
	"MomCare/pkg/otel"
	"MomCare/pkg/sms"
	"MomCare/pkg/snowflake"
	"MomCare/storage"
	"MomCare/storage/database"
)

const runLockName = "reminder:daily_run"

func main() {
	runOnce := flag.Bool("once", false, "run a single batch immediately and exit")
	flag.Parse()

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Reminder daemon received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	shutdownOtel, err := otel.InitOpenTelemetry(ctx, otel.Config{
		ServiceName:    config.Cfg.ServiceName + "-reminderd",
		ServiceVersion: "1.0.0",
		Environment:    config.Cfg.Environment,
		OTLPEndpoint:   config.Cfg.OTLPEndpoint,
		SampleRatio:    config.Cfg.TracingSampler,
	})
	if err != nil {
		logger.Logger.Warn("Failed to initialize OpenTelemetry, observability disabled", zap.Error(err))
	} else {
		defer shutdownOtel(context.Background())
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize metrics", zap.Error(err))
	}

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for reminder daemon", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for reminder daemon", zap.Error(err))
	}

	runner := buildRunner()

	logger.Logger.Info("Reminder daemon starting",
		zap.String("service", "momcare-reminderd"),
		zap.String("environment", config.Cfg.Environment),
		zap.String("run_at", config.Cfg.ReminderRunAt),
		zap.Bool("once", *runOnce),
	)

	if *runOnce {
		runBatch(ctx, runner)
		return
	}

	runDailyLoop(ctx, runner)

	logger.Logger.Info("Reminder daemon shutting down gracefully")
}

// buildRunner 组装批处理引擎：库表存储 + 邮件/短信渠道
func buildRunner() *schedule.Runner {
	store := repository.NewReminderStore(database.DB())

	var email schedule.EmailSender
	if err := mailer.Init(); err != nil {
		logger.Logger.Warn("Mail service unavailable, email reminders disabled", zap.Error(err))
	} else {
		email = mailer.GetClient()
	}

	var smsSender schedule.SMSSender
	if err := sms.Init(); err != nil {
		logger.Logger.Warn("SMS service unavailable, SMS reminders disabled", zap.Error(err))
	} else {
		smsSender = sms.NewTextSender()
	}

	generator := schedule.NewGenerator(store, config.Cfg.ReminderLeadDays)
	dispatcher := schedule.NewDispatcher(store, email, smsSender)

	return schedule.NewRunner(store, generator, dispatcher, config.Cfg.ReminderDispatchWorkers)
}

// runDailyLoop 每天在配置的时间点执行一次批处理
// development 环境下改为每 1 分钟执行一次，方便本地调试
func runDailyLoop(ctx context.Context, runner *schedule.Runner) {
	if config.Cfg.IsDevelopment() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Reminder daemon running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runBatch(ctx, runner)
			}
		}
	}

	runAt, err := time.Parse("15:04:05", config.Cfg.ReminderRunAt)
	if err != nil {
		logger.Logger.Fatal("Invalid REMINDER_RUN_AT value",
			zap.String("run_at", config.Cfg.ReminderRunAt),
			zap.Error(err),
		)
	}

	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(),
			runAt.Hour(), runAt.Minute(), runAt.Second(), 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		delay := time.Until(next)
		logger.Logger.Info("Scheduled next reminder batch run",
			zap.Time("now", now),
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			runBatch(ctx, runner)
		}
	}
}

// runBatch 获取分布式锁后执行一次批处理，锁防止多实例重复发送
func runBatch(ctx context.Context, runner *schedule.Runner) {
	runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	ok, err := cache.TryLock(runCtx, runLockName, 15*time.Minute)
	if err != nil {
		logger.Logger.Error("Failed to acquire reminder run lock", zap.Error(err))
		return
	}
	if !ok {
		logger.Logger.Info("Another instance is running the reminder batch, skipping")
		return
	}
	defer func() {
		if err := cache.Unlock(runCtx, runLockName); err != nil {
			logger.Logger.Warn("Failed to release reminder run lock", zap.Error(err))
		}
	}()

	summary, err := runner.RunOnce(runCtx, time.Now().UTC())
	if err != nil {
		logger.Logger.Error("Reminder batch run failed", zap.Error(err))
		return
	}

	fmt.Println(summary.String())
}
