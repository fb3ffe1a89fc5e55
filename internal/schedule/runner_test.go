package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomCare/internal/model"
)

// emailSenderByAddress 按收件人地址决定成功或失败
type emailSenderByAddress struct {
	failFor map[string]bool
}

func (f *emailSenderByAddress) SendMail(ctx context.Context, to, subject, body string) error {
	if f.failFor[to] {
		return errors.New("mailbox unavailable")
	}
	return nil
}

func TestRunOnce(t *testing.T) {
	a := dueReminder(1, model.NotifyViaEmail)
	a.Recipient.Email = "a@example.com"
	b := dueReminder(2, model.NotifyViaEmail)
	b.Recipient.Email = "b@example.com"
	c := dueReminder(3, model.NotifyViaEmail)
	c.Recipient.Email = "c@example.com"

	store := &fakeStore{
		episodes: []Episode{
			{PregnancyID: 9, LMPDate: "2024-01-01", CurrentWeek: 0, NotifyVia: model.NotifyViaEmail},
		},
		due: []DueReminder{a, b, c},
	}

	email := &emailSenderByAddress{failFor: map[string]bool{"b@example.com": true}}
	gen := NewGenerator(store, 2)
	disp := NewDispatcher(store, email, &fakeSMSSender{})
	runner := NewRunner(store, gen, disp, 4)

	summary, err := runner.RunOnce(context.Background(), today())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
	assert.ElementsMatch(t, []int64{1, 3}, store.markedIDs())
}

func TestRunOnceListDueError(t *testing.T) {
	store := &fakeStore{
		episodes: []Episode{
			{PregnancyID: 9, LMPDate: "2024-01-01", CurrentWeek: 0, NotifyVia: model.NotifyViaEmail},
		},
		dueErr: errors.New("db down"),
	}
	gen := NewGenerator(store, 2)
	disp := NewDispatcher(store, &fakeEmailSender{}, &fakeSMSSender{})
	runner := NewRunner(store, gen, disp, 2)

	_, err := runner.RunOnce(context.Background(), today())
	assert.Error(t, err)

	// 到期查询失败时整批中止，不落任何生成记录
	assert.Empty(t, store.inserted)
}

// chainingStore 让新插入的提醒立即出现在到期查询里
type chainingStore struct {
	fakeStore
}

func (s *chainingStore) ListDueUnsentReminders(ctx context.Context, today time.Time) ([]DueReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := append([]DueReminder(nil), s.due...)
	for _, r := range s.inserted {
		due = append(due, DueReminder{
			Reminder:  *r,
			Recipient: Recipient{FullName: "Asha", Email: "asha@example.com"},
		})
	}
	return due, nil
}

func TestRunOnceFreshReminderWaitsForNextRun(t *testing.T) {
	// 孕周 10、末次月经很早，生成出的提醒到期日已经过去
	store := &chainingStore{fakeStore: fakeStore{
		episodes: []Episode{
			{PregnancyID: 1, LMPDate: "2023-09-01", CurrentWeek: 10, NotifyVia: model.NotifyViaEmail},
		},
	}}

	gen := NewGenerator(store, 2)
	disp := NewDispatcher(store, &fakeEmailSender{}, &fakeSMSSender{})
	runner := NewRunner(store, gen, disp, 2)

	summary, err := runner.RunOnce(context.Background(), today())
	require.NoError(t, err)

	// 投递在生成之前，本次新生成的提醒留到下一次运行
	assert.Equal(t, 1, summary.Generated)
	assert.Zero(t, summary.Processed)
	assert.Zero(t, summary.Sent)
	assert.Empty(t, store.markedIDs())

	summary, err = runner.RunOnce(context.Background(), today())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Sent)
}

func TestRunOnceGenerationFailureStillDispatches(t *testing.T) {
	a := dueReminder(1, model.NotifyViaEmail)

	store := &fakeStore{
		episodesErr: errors.New("db hiccup"),
		due:         []DueReminder{a},
	}

	gen := NewGenerator(store, 2)
	disp := NewDispatcher(store, &fakeEmailSender{}, &fakeSMSSender{})
	runner := NewRunner(store, gen, disp, 2)

	summary, err := runner.RunOnce(context.Background(), today())
	require.NoError(t, err)

	assert.Zero(t, summary.Generated)
	assert.Equal(t, 1, summary.Sent)
}

func TestRunOnceSkippedNotCounted(t *testing.T) {
	a := dueReminder(1, model.NotifyViaEmail)
	a.Reminder.IsSent = true

	store := &fakeStore{due: []DueReminder{a}}
	gen := NewGenerator(store, 2)
	disp := NewDispatcher(store, &fakeEmailSender{}, &fakeSMSSender{})
	runner := NewRunner(store, gen, disp, 2)

	summary, err := runner.RunOnce(context.Background(), today())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Zero(t, summary.Sent)
	assert.Zero(t, summary.Failed)
}

func TestSummaryString(t *testing.T) {
	s := Summary{Sent: 2, Failed: 1, Processed: 3}
	s.Timestamp = today()

	assert.Equal(t,
		"Reminder Job Completed\nSent: 2\nFailed: 1\nTotal processed: 3\nTimestamp: 2024-01-02 00:00:00",
		s.String(),
	)
}
