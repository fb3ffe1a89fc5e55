package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"MomCare/pkg/logger"
	"MomCare/pkg/metrics"
)

// Summary 一次批处理的执行结果
type Summary struct {
	Generated int
	Processed int
	Sent      int
	Failed    int
	Timestamp time.Time
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"Reminder Job Completed\nSent: %d\nFailed: %d\nTotal processed: %d\nTimestamp: %s",
		s.Sent, s.Failed, s.Processed, s.Timestamp.Format("2006-01-02 15:04:05"),
	)
}

// Runner 串起投递与生成两个阶段，构成完整的一次批处理
type Runner struct {
	store      Store
	generator  *Generator
	dispatcher *Dispatcher
	workers    int
}

func NewRunner(store Store, generator *Generator, dispatcher *Dispatcher, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		store:      store,
		generator:  generator,
		dispatcher: dispatcher,
		workers:    workers,
	}
}

// RunOnce 执行一次完整批处理：先投递所有到期提醒，再补齐缺失的未来提醒。
// 本次新生成的提醒留到下一次运行再投递；到期提醒查询失败则在任何写入之前整批中止。
// 生成阶段失败只记录日志，投递结果照常汇总。
func (r *Runner) RunOnce(ctx context.Context, today time.Time) (Summary, error) {
	start := time.Now()
	summary := Summary{Timestamp: start}

	due, err := r.store.ListDueUnsentReminders(ctx, today)
	if err != nil {
		return summary, fmt.Errorf("failed to list due reminders: %w", err)
	}
	summary.Processed = len(due)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.workers)
	)

	for _, d := range due {
		wg.Add(1)
		sem <- struct{}{}

		go func(d DueReminder) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := r.dispatcher.Dispatch(ctx, d)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case outcome.Skipped:
				// 已发送的提醒不计入成功或失败
			case outcome.Sent:
				summary.Sent++
			default:
				summary.Failed++
			}
		}(d)
	}

	wg.Wait()

	generated, err := r.generator.GenerateBatch(ctx, today)
	if err != nil {
		logger.Logger.Error("Reminder generation failed", zap.Error(err))
	}
	summary.Generated = generated

	metrics.RecordReminderRunDuration(time.Since(start).Seconds())

	logger.Logger.Info("Reminder batch run completed",
		zap.Int("generated", summary.Generated),
		zap.Int("processed", summary.Processed),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", time.Since(start)),
	)

	return summary, nil
}
