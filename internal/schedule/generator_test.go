package schedule

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"MomCare/internal/model"
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

// fakeStore 内存实现，供生成、投递和批处理测试共用
type fakeStore struct {
	mu sync.Mutex

	episodes    []Episode
	episodesErr error

	inserted  []*model.Reminder
	insertErr error

	due    []DueReminder
	dueErr error

	marked  []int64
	markErr error
}

func (s *fakeStore) ListActiveEpisodesWithoutFutureReminder(ctx context.Context, today time.Time) ([]Episode, error) {
	return s.episodes, s.episodesErr
}

func (s *fakeStore) InsertReminder(ctx context.Context, reminder *model.Reminder) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, reminder)
	return nil
}

func (s *fakeStore) ListDueUnsentReminders(ctx context.Context, today time.Time) ([]DueReminder, error) {
	return s.due, s.dueErr
}

func (s *fakeStore) MarkReminderSent(ctx context.Context, reminderID int64, sentAt time.Time) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, reminderID)
	return nil
}

func (s *fakeStore) markedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.marked...)
}

func today() time.Time {
	return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
}

func TestGenerateBatch(t *testing.T) {
	store := &fakeStore{
		episodes: []Episode{
			{PregnancyID: 1, LMPDate: "2024-01-01", CurrentWeek: 0, NotifyVia: model.NotifyViaEmail},
		},
	}

	gen := NewGenerator(store, 2)
	generated, err := gen.GenerateBatch(context.Background(), today())
	require.NoError(t, err)
	assert.Equal(t, 1, generated)

	require.Len(t, store.inserted, 1)
	r := store.inserted[0]
	assert.Equal(t, int64(1), r.PregnancyID)
	assert.Equal(t, model.ReminderTypeANCVisit, r.Type)
	assert.Equal(t, "ANC Visit Reminder - Week 0", r.Title)
	assert.Contains(t, r.Message, "2024-02-26")
	assert.Equal(t, "2024-02-24", r.DueDate)
	assert.Equal(t, model.NotifyViaEmail, r.SendVia)
	assert.NotEmpty(t, r.PublicID)
	assert.False(t, r.IsSent)
}

func TestGenerateBatchAcceptsScannedLMPFormat(t *testing.T) {
	store := &fakeStore{
		episodes: []Episode{
			{PregnancyID: 1, LMPDate: "2024-01-01T00:00:00Z", CurrentWeek: 0, NotifyVia: model.NotifyViaEmail},
		},
	}

	gen := NewGenerator(store, 2)
	generated, err := gen.GenerateBatch(context.Background(), today())
	require.NoError(t, err)
	assert.Equal(t, 1, generated)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "2024-02-24", store.inserted[0].DueDate)
}

func TestGenerateBatchSkipsMalformedLMP(t *testing.T) {
	store := &fakeStore{
		episodes: []Episode{
			{PregnancyID: 1, LMPDate: "not-a-date", CurrentWeek: 10, NotifyVia: model.NotifyViaSMS},
			{PregnancyID: 2, LMPDate: "2023-10-15", CurrentWeek: 10, NotifyVia: model.NotifyViaSMS},
		},
	}

	gen := NewGenerator(store, 2)
	generated, err := gen.GenerateBatch(context.Background(), today())
	require.NoError(t, err)
	assert.Equal(t, 1, generated)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, int64(2), store.inserted[0].PregnancyID)
}

func TestGenerateBatchSkipsPastFinalWeek(t *testing.T) {
	store := &fakeStore{
		episodes: []Episode{
			{PregnancyID: 1, LMPDate: "2023-04-01", CurrentWeek: 40, NotifyVia: model.NotifyViaBoth},
		},
	}

	gen := NewGenerator(store, 2)
	generated, err := gen.GenerateBatch(context.Background(), today())
	require.NoError(t, err)
	assert.Zero(t, generated)
	assert.Empty(t, store.inserted)
}

func TestGenerateBatchListError(t *testing.T) {
	store := &fakeStore{episodesErr: errors.New("db down")}

	gen := NewGenerator(store, 2)
	_, err := gen.GenerateBatch(context.Background(), today())
	assert.Error(t, err)
}

func TestGenerateBatchInsertErrorContinues(t *testing.T) {
	store := &fakeStore{
		episodes: []Episode{
			{PregnancyID: 1, LMPDate: "2023-10-15", CurrentWeek: 10, NotifyVia: model.NotifyViaEmail},
		},
		insertErr: errors.New("unique violation"),
	}

	gen := NewGenerator(store, 2)
	generated, err := gen.GenerateBatch(context.Background(), today())
	require.NoError(t, err)
	assert.Zero(t, generated)
}
