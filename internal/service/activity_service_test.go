package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/models"
	"github.com/ratotecki/smartgridlab-api/internal/repository"
)

type activityRepoStub struct {
	mu        sync.Mutex
	entries   []models.ActivityLog
	createErr error
}

func (a *activityRepoStub) Create(_ context.Context, entry *models.ActivityLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.createErr != nil {
		return a.createErr
	}
	entry.ID = uint(len(a.entries) + 1)
	a.entries = append(a.entries, *entry)
	return nil
}

func (a *activityRepoStub) List(_ context.Context, _ repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.ActivityLog(nil), a.entries...), int64(len(a.entries)), nil
}

func (a *activityRepoStub) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

func TestActivityRecordPersistsAsynchronously(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, testLogger())

	userID := uint(1)
	svc.Record(context.Background(), ActivityEntry{
		UserID:     &userID,
		Action:     "news.create.success",
		EntityType: "news",
		Details:    map[string]interface{}{"title": "Launch"},
	})

	require.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestActivityRecordSwallowsStoreFailure(t *testing.T) {
	repo := &activityRepoStub{createErr: errors.New("table locked")}
	svc := NewActivityService(repo, testLogger())

	// Must not panic or surface the error to the caller.
	svc.Record(context.Background(), ActivityEntry{Action: "contact_message.create.success"})

	time.Sleep(20 * time.Millisecond)
	require.Zero(t, repo.count())
}

func TestActivityRecordDropsEmptyAction(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, testLogger())

	svc.Record(context.Background(), ActivityEntry{Action: "   "})

	time.Sleep(20 * time.Millisecond)
	require.Zero(t, repo.count())
}

func TestActivityRecordSurvivesCancelledRequestContext(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Record(ctx, ActivityEntry{Action: "login.success"})

	require.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestActivityStreamReceivesNewEntries(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, testLogger())

	entries, cancel := svc.Subscribe()
	defer cancel()

	svc.Record(context.Background(), ActivityEntry{Action: "news.delete.success", EntityType: "news"})

	select {
	case entry := <-entries:
		require.Equal(t, "news.delete.success", entry.Action)
	case <-time.After(time.Second):
		t.Fatal("expected a streamed activity entry")
	}
}

func TestActivityListPaginationMeta(t *testing.T) {
	repo := &activityRepoStub{}
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &models.ActivityLog{Action: "login.success"}))
	}
	svc := NewActivityService(repo, testLogger())

	list, err := svc.List(context.Background(), dto.ActivityListRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, list.Entries, 3, "stub returns everything; meta is computed from the total")
	require.Equal(t, int64(3), list.Pagination.TotalItems)
	require.Equal(t, 2, list.Pagination.TotalPages)
}
