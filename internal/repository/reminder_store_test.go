package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"MomCare/internal/model"
	"MomCare/internal/schedule"
	"MomCare/pkg/logger"
	"MomCare/pkg/snowflake"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	if err := snowflake.Init(1, 1); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Pregnancy{},
		&model.Visit{},
		&model.Reminder{},
		&model.RiskAlert{},
	))

	return db
}

func seedUserWithPregnancy(t *testing.T, db *gorm.DB, suffix string, currentWeek int, lmp string, active bool) *model.Pregnancy {
	t.Helper()

	user := &model.User{
		PublicID:     "u-" + suffix,
		Username:     "user" + suffix,
		Email:        "user" + suffix + "@example.com",
		PasswordHash: "x",
		FullName:     "User " + suffix,
		Phone:        "+91000000" + suffix,
		Role:         model.RolePregnantWoman,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	pregnancy := &model.Pregnancy{
		PublicID:    "p-" + suffix,
		UserID:      user.ID,
		LMPDate:     lmp,
		CurrentWeek: currentWeek,
		NotifyVia:   model.NotifyViaEmail,
		IsActive:    active,
	}
	require.NoError(t, db.Create(pregnancy).Error)

	// is_active 带 default:true 标签，Create 会忽略 false 零值，需显式回写
	if !active {
		require.NoError(t, db.Model(pregnancy).Update("is_active", false).Error)
	}

	return pregnancy
}

func testToday() time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
}

func TestListActiveEpisodesWithoutFutureReminder(t *testing.T) {
	db := openTestDB(t)
	store := NewReminderStore(db)
	ctx := context.Background()

	eligible := seedUserWithPregnancy(t, db, "01", 10, "2023-12-20", true)
	seedUserWithPregnancy(t, db, "02", 40, "2023-06-01", true)  // 已到最后一周
	seedUserWithPregnancy(t, db, "03", 12, "2023-12-01", false) // 非活跃
	seedUserWithPregnancy(t, db, "04", 12, "", true)            // 无末次月经日期

	// 已有未来提醒的档案不再生成
	covered := seedUserWithPregnancy(t, db, "05", 12, "2023-12-01", true)
	require.NoError(t, db.Create(&model.Reminder{
		PublicID:    "r-05",
		PregnancyID: covered.ID,
		Type:        model.ReminderTypeANCVisit,
		Title:       "ANC Visit Reminder - Week 16",
		Message:     "msg",
		DueDate:     "2024-03-20",
		SendVia:     model.NotifyViaEmail,
	}).Error)

	// 过期提醒不挡住新提醒
	expired := seedUserWithPregnancy(t, db, "06", 14, "2023-11-20", true)
	require.NoError(t, db.Create(&model.Reminder{
		PublicID:    "r-06",
		PregnancyID: expired.ID,
		Type:        model.ReminderTypeANCVisit,
		Title:       "ANC Visit Reminder - Week 12",
		Message:     "msg",
		DueDate:     "2024-02-10",
		SendVia:     model.NotifyViaEmail,
		IsSent:      true,
	}).Error)

	// 到期日是今天的提醒不算未来提醒，不阻止接续生成
	dueToday := seedUserWithPregnancy(t, db, "07", 16, "2023-11-10", true)
	require.NoError(t, db.Create(&model.Reminder{
		PublicID:    "r-07",
		PregnancyID: dueToday.ID,
		Type:        model.ReminderTypeANCVisit,
		Title:       "ANC Visit Reminder - Week 16",
		Message:     "msg",
		DueDate:     "2024-03-01",
		SendVia:     model.NotifyViaEmail,
	}).Error)

	episodes, err := store.ListActiveEpisodesWithoutFutureReminder(ctx, testToday())
	require.NoError(t, err)

	ids := make([]int64, 0, len(episodes))
	for _, ep := range episodes {
		ids = append(ids, ep.PregnancyID)
		// 末次月经日期回读后仍是 YYYY-MM-DD，可直接喂给生成器
		if ep.PregnancyID == eligible.ID {
			assert.Equal(t, "2023-12-20", ep.LMPDate)
		}
	}
	assert.ElementsMatch(t, []int64{eligible.ID, expired.ID, dueToday.ID}, ids)
}

func TestInsertAndListDueUnsentReminders(t *testing.T) {
	db := openTestDB(t)
	store := NewReminderStore(db)
	ctx := context.Background()

	p := seedUserWithPregnancy(t, db, "01", 10, "2023-12-20", true)

	dueToday := &model.Reminder{
		PublicID:    "r-1",
		PregnancyID: p.ID,
		Type:        model.ReminderTypeANCVisit,
		Title:       "ANC Visit Reminder - Week 12",
		Message:     "msg",
		DueDate:     "2024-03-01",
		SendVia:     model.NotifyViaEmail,
	}
	require.NoError(t, store.InsertReminder(ctx, dueToday))

	overdue := &model.Reminder{
		PublicID:    "r-2",
		PregnancyID: p.ID,
		Type:        model.ReminderTypeANCVisit,
		Title:       "ANC Visit Reminder - Week 8",
		Message:     "msg",
		DueDate:     "2024-02-01",
		SendVia:     model.NotifyViaEmail,
	}
	require.NoError(t, store.InsertReminder(ctx, overdue))

	future := &model.Reminder{
		PublicID:    "r-3",
		PregnancyID: p.ID,
		Type:        model.ReminderTypeANCVisit,
		Title:       "ANC Visit Reminder - Week 16",
		Message:     "msg",
		DueDate:     "2024-04-01",
		SendVia:     model.NotifyViaEmail,
	}
	require.NoError(t, store.InsertReminder(ctx, future))

	sent := &model.Reminder{
		PublicID:    "r-4",
		PregnancyID: p.ID,
		Type:        model.ReminderTypeANCVisit,
		Title:       "ANC Visit Reminder - Week 8",
		Message:     "msg",
		DueDate:     "2024-02-15",
		SendVia:     model.NotifyViaEmail,
		IsSent:      true,
	}
	require.NoError(t, store.InsertReminder(ctx, sent))

	due, err := store.ListDueUnsentReminders(ctx, testToday())
	require.NoError(t, err)
	require.Len(t, due, 2)

	ids := []int64{due[0].Reminder.ID, due[1].Reminder.ID}
	assert.ElementsMatch(t, []int64{dueToday.ID, overdue.ID}, ids)

	// 接收人联系方式来自关联的用户
	assert.Equal(t, "User 01", due[0].Recipient.FullName)
	assert.Equal(t, "user01@example.com", due[0].Recipient.Email)
}

func TestMarkReminderSent(t *testing.T) {
	db := openTestDB(t)
	store := NewReminderStore(db)
	ctx := context.Background()

	p := seedUserWithPregnancy(t, db, "01", 10, "2023-12-20", true)

	r := &model.Reminder{
		PublicID:    "r-1",
		PregnancyID: p.ID,
		Type:        model.ReminderTypeANCVisit,
		Title:       "ANC Visit Reminder - Week 12",
		Message:     "msg",
		DueDate:     "2024-03-01",
		SendVia:     model.NotifyViaEmail,
	}
	require.NoError(t, store.InsertReminder(ctx, r))

	sentAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.MarkReminderSent(ctx, r.ID, sentAt))

	var got model.Reminder
	require.NoError(t, db.First(&got, r.ID).Error)
	assert.True(t, got.IsSent)
	require.NotNil(t, got.SentAt)
	assert.True(t, got.SentAt.Equal(sentAt))

	due, err := store.ListDueUnsentReminders(ctx, testToday())
	require.NoError(t, err)
	assert.Empty(t, due)
}

// fakeMailer 邮件渠道打桩
type fakeMailer struct{}

func (fakeMailer) SendMail(ctx context.Context, to, subject, body string) error { return nil }

func TestGenerateBatchAgainstStore(t *testing.T) {
	db := openTestDB(t)
	store := NewReminderStore(db)
	ctx := context.Background()

	p := seedUserWithPregnancy(t, db, "01", 10, "2024-01-05", true)

	gen := schedule.NewGenerator(store, 2)
	generated, err := gen.GenerateBatch(ctx, testToday())
	require.NoError(t, err)
	require.Equal(t, 1, generated)

	var r model.Reminder
	require.NoError(t, db.Where("pregnancy_id = ?", p.ID).First(&r).Error)
	assert.Equal(t, "ANC Visit Reminder - Week 10", r.Title)
	assert.Equal(t, "2024-03-27", r.DueDate)
	assert.Contains(t, r.Message, "2024-03-29")

	// 已有未来提醒时重复执行不再生成
	generated, err = gen.GenerateBatch(ctx, testToday())
	require.NoError(t, err)
	assert.Zero(t, generated)
}

func TestRunOnceAgainstStore(t *testing.T) {
	db := openTestDB(t)
	store := NewReminderStore(db)
	ctx := context.Background()

	seedUserWithPregnancy(t, db, "01", 10, "2023-12-01", true)

	gen := schedule.NewGenerator(store, 2)
	disp := schedule.NewDispatcher(store, fakeMailer{}, nil)
	runner := schedule.NewRunner(store, gen, disp, 2)

	// 第一轮补上缺失的提醒，投递留到下一轮
	summary, err := runner.RunOnce(ctx, testToday())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)
	assert.Zero(t, summary.Processed)

	// 第二轮投递上一轮生成的到期提醒
	summary, err = runner.RunOnce(ctx, testToday())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Sent)
	assert.Zero(t, summary.Failed)
}
