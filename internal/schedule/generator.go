package schedule

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"MomCare/internal/model"
	"MomCare/pkg/logger"
	"MomCare/pkg/metrics"
	"MomCare/pkg/snowflake"
	"MomCare/utils"
)

// Generator 为没有未来提醒的孕期档案生成下一次产检提醒。
// 同一档案同一时刻最多只有一条未来提醒，重复执行不会产生重复记录。
type Generator struct {
	store    Store
	leadDays int
}

func NewGenerator(store Store, leadDays int) *Generator {
	return &Generator{
		store:    store,
		leadDays: leadDays,
	}
}

// GenerateBatch 为一批档案生成提醒，返回生成条数。
// 单条档案的数据问题只跳过该条，不中断整批。
func (g *Generator) GenerateBatch(ctx context.Context, today time.Time) (int, error) {
	episodes, err := g.store.ListActiveEpisodesWithoutFutureReminder(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list episodes: %w", err)
	}

	generated := 0
	for _, ep := range episodes {
		reminder, ok := g.buildReminder(ep)
		if !ok {
			continue
		}

		if err := g.store.InsertReminder(ctx, reminder); err != nil {
			logger.Logger.Error("Failed to insert reminder",
				zap.Int64("pregnancy_id", ep.PregnancyID),
				zap.Error(err),
			)
			continue
		}

		generated++
	}

	if generated > 0 {
		metrics.RecordReminderGenerated(int64(generated))
	}

	return generated, nil
}

// buildReminder 由孕期档案推算下一次产检并组装提醒记录
func (g *Generator) buildReminder(ep Episode) (*model.Reminder, bool) {
	anchor, err := utils.ParseDate(ep.LMPDate)
	if err != nil {
		logger.Logger.Warn("Skipping episode with malformed LMP date",
			zap.Int64("pregnancy_id", ep.PregnancyID),
			zap.String("lmp_date", ep.LMPDate),
			zap.Error(err),
		)
		return nil, false
	}

	visitDate, _, ok := NextVisitDate(ep.CurrentWeek, anchor)
	if !ok {
		return nil, false
	}

	dueDate := visitDate.AddDate(0, 0, -g.leadDays)

	id, err := snowflake.NextID()
	if err != nil {
		logger.Logger.Error("Failed to generate reminder id",
			zap.Int64("pregnancy_id", ep.PregnancyID),
			zap.Error(err),
		)
		return nil, false
	}

	return &model.Reminder{
		PublicID:    strconv.FormatInt(id, 10),
		PregnancyID: ep.PregnancyID,
		Type:        model.ReminderTypeANCVisit,
		// 标题标注档案当前孕周，正文给出推荐的下次产检日期
		Title:       fmt.Sprintf("ANC Visit Reminder - Week %d", ep.CurrentWeek),
		Message: fmt.Sprintf(
			"Your next ANC visit is recommended for %s. Please schedule your appointment with your healthcare provider.",
			utils.FormatDate(visitDate),
		),
		DueDate: utils.FormatDate(dueDate),
		SendVia: ep.NotifyVia,
	}, true
}
