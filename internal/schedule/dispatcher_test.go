package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MomCare/internal/model"
)

type fakeEmailSender struct {
	mu    sync.Mutex
	sent  []string
	fails bool
}

func (f *fakeEmailSender) SendMail(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeSMSSender struct {
	mu    sync.Mutex
	sent  []string
	texts []string
	fails bool
}

func (f *fakeSMSSender) SendSMS(ctx context.Context, phone, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails {
		return errors.New("sms gateway error")
	}
	f.sent = append(f.sent, phone)
	f.texts = append(f.texts, text)
	return nil
}

func dueReminder(id int64, via model.NotifyChannel) DueReminder {
	r := model.Reminder{
		PregnancyID: 1,
		Type:        model.ReminderTypeANCVisit,
		Title:       "ANC Visit Reminder - Week 12",
		Message:     "Your next ANC visit is recommended for 2024-03-25. Please schedule your appointment with your healthcare provider.",
		DueDate:     "2024-03-23",
		SendVia:     via,
	}
	r.ID = id

	return DueReminder{
		Reminder: r,
		Recipient: Recipient{
			FullName: "Asha Devi",
			Email:    "asha@example.com",
			Phone:    "+911234567890",
		},
	}
}

func TestDispatchEmailOnly(t *testing.T) {
	store := &fakeStore{}
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	d := NewDispatcher(store, email, sms)

	outcome := d.Dispatch(context.Background(), dueReminder(10, model.NotifyViaEmail))

	assert.True(t, outcome.Sent)
	assert.False(t, outcome.Skipped)
	assert.Equal(t, []string{"asha@example.com"}, email.sent)
	assert.Empty(t, sms.sent)
	assert.Equal(t, []int64{10}, store.markedIDs())
}

func TestDispatchBothChannelsPartialFailureStillSent(t *testing.T) {
	store := &fakeStore{}
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{fails: true}
	d := NewDispatcher(store, email, sms)

	outcome := d.Dispatch(context.Background(), dueReminder(11, model.NotifyViaBoth))

	// 任一渠道成功即算发送成功
	assert.True(t, outcome.Sent)
	require.Len(t, outcome.Results, 2)
	assert.NoError(t, outcome.Results[0].Err)
	assert.Error(t, outcome.Results[1].Err)
	assert.Equal(t, []int64{11}, store.markedIDs())
}

func TestDispatchAllChannelsFail(t *testing.T) {
	store := &fakeStore{}
	email := &fakeEmailSender{fails: true}
	sms := &fakeSMSSender{fails: true}
	d := NewDispatcher(store, email, sms)

	outcome := d.Dispatch(context.Background(), dueReminder(12, model.NotifyViaBoth))

	assert.False(t, outcome.Sent)
	assert.Empty(t, store.markedIDs())
}

func TestDispatchSkipsAlreadySent(t *testing.T) {
	store := &fakeStore{}
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	d := NewDispatcher(store, email, sms)

	due := dueReminder(13, model.NotifyViaBoth)
	due.Reminder.IsSent = true

	outcome := d.Dispatch(context.Background(), due)

	assert.True(t, outcome.Skipped)
	assert.False(t, outcome.Sent)
	assert.Empty(t, email.sent)
	assert.Empty(t, sms.sent)
	assert.Empty(t, store.markedIDs())
}

func TestDispatchSMSTextFormat(t *testing.T) {
	store := &fakeStore{}
	sms := &fakeSMSSender{}
	d := NewDispatcher(store, &fakeEmailSender{}, sms)

	d.Dispatch(context.Background(), dueReminder(14, model.NotifyViaSMS))

	require.Len(t, sms.texts, 1)
	assert.Equal(t,
		"Hello Asha Devi, this is a reminder: Your next ANC visit is recommended for 2024-03-25. Please schedule your appointment with your healthcare provider. - Maternal Healthcare",
		sms.texts[0],
	)
}

func TestDispatchMissingContactInfo(t *testing.T) {
	store := &fakeStore{}
	email := &fakeEmailSender{}
	d := NewDispatcher(store, email, &fakeSMSSender{})

	due := dueReminder(15, model.NotifyViaEmail)
	due.Recipient.Email = ""

	outcome := d.Dispatch(context.Background(), due)

	assert.False(t, outcome.Sent)
	assert.Empty(t, email.sent)
}

func TestDispatchMarkSentFailureCountsAsFailed(t *testing.T) {
	store := &fakeStore{markErr: errors.New("db down")}
	d := NewDispatcher(store, &fakeEmailSender{}, &fakeSMSSender{})

	outcome := d.Dispatch(context.Background(), dueReminder(16, model.NotifyViaEmail))

	assert.False(t, outcome.Sent)
}
